package mockserver

import (
	"strings"

	"github.com/unkn0wn-root/odatacomplete/internal/customer"
	"github.com/unkn0wn-root/odatacomplete/internal/errdef"
	"github.com/unkn0wn-root/odatacomplete/internal/odata"
)

var fieldGetters = map[string]func(customer.Customer) string{
	"CustomerID":   func(c customer.Customer) string { return c.CustomerID },
	"CompanyName":  func(c customer.Customer) string { return c.CompanyName },
	"ContactName":  func(c customer.Customer) string { return c.ContactName },
	"ContactTitle": func(c customer.Customer) string { return c.ContactTitle },
	"Address":      func(c customer.Customer) string { return c.Address },
	"City":         func(c customer.Customer) string { return c.City },
	"Region":       func(c customer.Customer) string { return c.Region },
	"PostalCode":   func(c customer.Customer) string { return c.PostalCode },
	"Country":      func(c customer.Customer) string { return c.Country },
	"Phone":        func(c customer.Customer) string { return c.Phone },
	"Fax":          func(c customer.Customer) string { return c.Fax },
}

// Match keeps customers where any filter field starts with the filter value.
// Comparison is case sensitive, as OData startswith is.
func Match(records []customer.Customer, f odata.Filter) ([]customer.Customer, error) {
	getters := make([]func(customer.Customer) string, 0, len(f.Fields))
	for _, field := range f.Fields {
		get, ok := fieldGetters[field]
		if !ok {
			return nil, errdef.New(errdef.CodeQuery, "Could not find a property named '%s' on type 'NorthwindModel.Customer'.", field)
		}
		getters = append(getters, get)
	}

	out := make([]customer.Customer, 0)
	for _, c := range records {
		for _, get := range getters {
			if strings.HasPrefix(get(c), f.Value) {
				out = append(out, c)
				break
			}
		}
	}
	return out, nil
}
