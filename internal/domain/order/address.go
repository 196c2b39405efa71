package order

// Address is a value object describing a physical address.
// It is derived from a stock location or from the order's shipping
// address and is never persisted on its own.
type Address struct {
	Line1      string
	Line2      string
	City       string
	StateAbbr  string
	CountryISO string
	Zipcode    string
}

// IsZero reports whether the address carries no data at all
func (a Address) IsZero() bool {
	return a == Address{}
}
