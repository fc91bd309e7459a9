package cybersource

// Address is the platform-side billing address handed to the request
// builder.
type Address struct {
	FirstName   string
	LastName    string
	Line1       string
	Line2       string
	City        string
	PostalCode  string
	Country     string
	CountryArea string
	CityArea    string
	Phone       string
}

// MapAddress translates a billing address into bill_to_* signed fields,
// skipping empty values. The state field prefers the country area over
// the city area. A non-empty email is mapped too.
func MapAddress(a *Address, email string) map[string]string {
	out := make(map[string]string)
	if a != nil {
		put := func(name, value string) {
			if value != "" {
				out[name] = value
			}
		}
		put(FieldBillForename, a.FirstName)
		put(FieldBillSurname, a.LastName)
		put(FieldBillLine1, a.Line1)
		put(FieldBillLine2, a.Line2)
		put(FieldBillCity, a.City)
		put(FieldBillPostalCode, a.PostalCode)
		put(FieldBillCountry, a.Country)
		put(FieldBillPhone, a.Phone)
		state := a.CountryArea
		if state == "" {
			state = a.CityArea
		}
		put(FieldBillState, state)
	}
	if email != "" {
		out[FieldBillEmail] = email
	}
	return out
}
