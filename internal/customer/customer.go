package customer

import "strings"

// Customer mirrors the Northwind Customers entity. Every field is optional and
// decodes to the empty string when absent or null.
type Customer struct {
	CustomerID   string `json:"CustomerID"`
	CompanyName  string `json:"CompanyName"`
	ContactName  string `json:"ContactName"`
	ContactTitle string `json:"ContactTitle"`
	Address      string `json:"Address"`
	City         string `json:"City"`
	Region       string `json:"Region"`
	PostalCode   string `json:"PostalCode"`
	Country      string `json:"Country"`
	Phone        string `json:"Phone"`
	Fax          string `json:"Fax"`
}

// Envelope is the OData collection wrapper: {"value": [...]}.
type Envelope[T any] struct {
	Value []T `json:"value"`
}

// Label is the one-line name shown for a suggestion.
func (c Customer) Label() string {
	contact := strings.TrimSpace(c.ContactName)
	company := strings.TrimSpace(c.CompanyName)
	switch {
	case contact != "" && company != "":
		return contact + " (" + company + ")"
	case contact != "":
		return contact
	case company != "":
		return company
	default:
		return strings.TrimSpace(c.CustomerID)
	}
}

// Summary joins title, city and country, skipping empty parts.
func (c Customer) Summary() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{c.ContactTitle, c.City, c.Country} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// Selection is the text written back into the input once a customer is picked.
func (c Customer) Selection() string {
	id := strings.TrimSpace(c.CustomerID)
	name := strings.TrimSpace(c.ContactName)
	switch {
	case id != "" && name != "":
		return id + " - " + name
	case name != "":
		return name
	default:
		return id
	}
}

// Take returns at most n leading records as a fresh slice. The result is never
// nil so callers can range and len without checks.
func Take(records []Customer, n int) []Customer {
	if n < 0 {
		n = 0
	}
	if len(records) < n {
		n = len(records)
	}
	out := make([]Customer, n)
	copy(out, records[:n])
	return out
}
