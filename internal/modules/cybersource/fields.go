package cybersource

import "sort"

// Secure Acceptance wire field names. These are fixed by the gateway
// contract and must never be renamed.
const (
	FieldAccessKey          = "access_key"
	FieldAmount             = "amount"
	FieldCurrency           = "currency"
	FieldLocale             = "locale"
	FieldMerchantID         = "merchant_id"
	FieldPaymentMethod      = "payment_method"
	FieldProfileID          = "profile_id"
	FieldReferenceNumber    = "reference_number"
	FieldSignature          = "signature"
	FieldSignedDateTime     = "signed_date_time"
	FieldSignedFieldNames   = "signed_field_names"
	FieldTransactionType    = "transaction_type"
	FieldTransactionUUID    = "transaction_uuid"
	FieldUnsignedFieldNames = "unsigned_field_names"
)

// Optional signed billing fields.
const (
	FieldBillForename   = "bill_to_forename"
	FieldBillSurname    = "bill_to_surname"
	FieldBillPhone      = "bill_to_phone"
	FieldBillEmail      = "bill_to_email"
	FieldBillLine1      = "bill_to_address_line1"
	FieldBillLine2      = "bill_to_address_line2"
	FieldBillCity       = "bill_to_address_city"
	FieldBillPostalCode = "bill_to_address_postal_code"
	FieldBillState      = "bill_to_address_state"
	FieldBillCountry    = "bill_to_address_country"
)

// Fields of inbound notifications and browser returns.
const (
	FieldDecision   = "decision"
	FieldMessage    = "message"
	FieldReasonCode = "reason_code"

	// Request fields echoed back by the gateway with a req_ prefix.
	FieldReqAmount          = "req_amount"
	FieldReqCurrency        = "req_currency"
	FieldReqReferenceNumber = "req_reference_number"
	FieldReqTransactionType = "req_transaction_type"
	FieldReqTransactionUUID = "req_transaction_uuid"
)

// Transaction types accepted by the hosted payment page.
const (
	TransactionTypeAuth    = "authorization"
	TransactionTypeCapture = "sale"
)

// requiredFields must all be present before a request can be signed.
var requiredFields = []string{
	FieldAccessKey,
	FieldAmount,
	FieldCurrency,
	FieldLocale,
	FieldProfileID,
	FieldReferenceNumber,
	FieldSignedDateTime,
	FieldSignedFieldNames,
	FieldTransactionType,
	FieldTransactionUUID,
	FieldUnsignedFieldNames,
}

// signedFields is the contractually signable superset: every field listed
// here goes into the HMAC input when present. Everything else ends up in
// unsigned_field_names.
var signedFields = map[string]bool{
	FieldAccessKey:          true,
	FieldAmount:             true,
	FieldCurrency:           true,
	FieldLocale:             true,
	FieldProfileID:          true,
	FieldReferenceNumber:    true,
	FieldSignedDateTime:     true,
	FieldSignedFieldNames:   true,
	FieldTransactionType:    true,
	FieldTransactionUUID:    true,
	FieldUnsignedFieldNames: true,

	FieldBillForename:   true,
	FieldBillSurname:    true,
	FieldBillPhone:      true,
	FieldBillEmail:      true,
	FieldBillLine1:      true,
	FieldBillLine2:      true,
	FieldBillCity:       true,
	FieldBillPostalCode: true,
	FieldBillState:      true,
	FieldBillCountry:    true,

	FieldMerchantID:    true,
	FieldPaymentMethod: true,
}

// addedFields are filled in by the request builder from configuration or
// generated defaults; callers only have to supply the rest.
var addedFields = map[string]bool{
	FieldAccessKey:          true,
	FieldCurrency:           true,
	FieldLocale:             true,
	FieldMerchantID:         true,
	FieldPaymentMethod:      true,
	FieldProfileID:          true,
	FieldSignedDateTime:     true,
	FieldSignedFieldNames:   true,
	FieldTransactionType:    true,
	FieldTransactionUUID:    true,
	FieldUnsignedFieldNames: true,
}

// checkFields returns required-minus-added: the fields the caller itself
// must provide, checked up front so the caller gets a specific error
// before any defaulting happens.
func checkFields() []string {
	var out []string
	for _, name := range requiredFields {
		if !addedFields[name] {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// Fields is an insertion-ordered set of wire fields. Iteration order is
// the order values were first set, which is what the hidden-form renderer
// uses unless the caller asks for sorted output.
type Fields struct {
	names  []string
	values map[string]string
}

func NewFields() *Fields {
	return &Fields{values: make(map[string]string)}
}

// FieldsFrom builds a Fields from a plain map. Names are inserted in
// sorted order so the result is deterministic.
func FieldsFrom(m map[string]string) *Fields {
	f := NewFields()
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		f.Set(name, m[name])
	}
	return f
}

// Set stores a value, keeping the name's original insertion position if
// it was already present.
func (f *Fields) Set(name, value string) {
	if _, ok := f.values[name]; !ok {
		f.names = append(f.names, name)
	}
	f.values[name] = value
}

func (f *Fields) Get(name string) (string, bool) {
	v, ok := f.values[name]
	return v, ok
}

// Value returns the field value or "" when absent.
func (f *Fields) Value(name string) string {
	return f.values[name]
}

func (f *Fields) Has(name string) bool {
	_, ok := f.values[name]
	return ok
}

func (f *Fields) Len() int { return len(f.names) }

// Names returns field names in insertion order.
func (f *Fields) Names() []string {
	out := make([]string, len(f.names))
	copy(out, f.names)
	return out
}

// Sorted returns field names in lexicographic order.
func (f *Fields) Sorted() []string {
	out := f.Names()
	sort.Strings(out)
	return out
}

func (f *Fields) Clone() *Fields {
	out := NewFields()
	for _, name := range f.names {
		out.Set(name, f.values[name])
	}
	return out
}

// Map returns a flat copy of the field set.
func (f *Fields) Map() map[string]string {
	out := make(map[string]string, len(f.values))
	for k, v := range f.values {
		out[k] = v
	}
	return out
}
