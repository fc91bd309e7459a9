package cybersource

import (
	"fmt"
	"html"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Format of signed_date_time: wall-clock UTC, seconds precision.
const timestampFormat = "2006-01-02T15:04:05Z"

// Builder assembles signed redirect field sets for the hosted payment
// page. The clock and UUID source are injectable so builds can be made
// deterministic under test.
type Builder struct {
	cfg    *Config
	signer *Signer

	now     func() time.Time
	newUUID func() string
}

func NewBuilder(cfg *Config) *Builder {
	return &Builder{
		cfg:     cfg,
		signer:  NewSigner(cfg.SecretKey),
		now:     time.Now,
		newUUID: uuid.NewString,
	}
}

// WithClock replaces the timestamp source. Test hook.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.now = now
	return b
}

// WithUUID replaces the transaction UUID source. Test hook.
func (b *Builder) WithUUID(fn func() string) *Builder {
	b.newUUID = fn
	return b
}

// Build produces the fully populated, signed field set ready to render as
// hidden form fields. The input is not modified.
//
// Order of operations matters: the caller-field pre-check runs against
// the raw input, configuration fields and defaults are injected next,
// the amount is normalized, the full required set is gated, and only
// then are the signed/unsigned subsets computed and signed.
func (b *Builder) Build(in *Fields) (*Fields, error) {
	var missing []string
	for _, name := range checkFields() {
		if !in.Has(name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, &FieldCheckError{Missing: missing}
	}

	out := in.Clone()
	out.Set(FieldProfileID, b.cfg.ProfileID)
	out.Set(FieldAccessKey, b.cfg.AccessKey)
	out.Set(FieldTransactionType, b.cfg.TransactionType())
	out.Set(FieldMerchantID, b.cfg.MerchantID)

	if err := b.formatAmount(out); err != nil {
		return nil, err
	}
	b.addMissing(out)

	if cur := out.Value(FieldCurrency); !b.cfg.SupportsCurrency(cur) {
		return nil, fmt.Errorf("%w: %s", ErrCurrencyNotSupported, cur)
	}

	missing = missing[:0]
	for _, name := range requiredFields {
		if name == FieldSignedFieldNames || name == FieldUnsignedFieldNames {
			continue // computed below
		}
		if !out.Has(name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, &FieldCheckError{Missing: missing}
	}

	signed, unsigned := partition(out)
	out.Set(FieldSignedFieldNames, strings.Join(signed, SignedFieldSep))
	out.Set(FieldUnsignedFieldNames, strings.Join(unsigned, SignedFieldSep))

	signature, err := b.signer.Sign(out, signed)
	if err != nil {
		return nil, err
	}
	out.Set(FieldSignature, signature)
	return out, nil
}

// Endpoint returns the form action URL for built field sets.
func (b *Builder) Endpoint() string { return b.cfg.Endpoint() }

func (b *Builder) formatAmount(out *Fields) error {
	raw, ok := out.Get(FieldAmount)
	if !ok {
		return &MissingFieldError{Field: FieldAmount}
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return &AmountError{Value: raw, Err: err}
	}
	out.Set(FieldAmount, fmt.Sprintf("%.2f", v))
	return nil
}

func (b *Builder) addMissing(out *Fields) {
	if !out.Has(FieldCurrency) {
		cur := b.cfg.Currency
		if cur == "" {
			cur = DefaultCurrency
		}
		out.Set(FieldCurrency, cur)
	}
	if !out.Has(FieldLocale) {
		loc := b.cfg.Locale
		if loc == "" {
			loc = DefaultLocale
		}
		out.Set(FieldLocale, loc)
	}
	if !out.Has(FieldPaymentMethod) {
		out.Set(FieldPaymentMethod, DefaultPaymentMethod)
	}
	if !out.Has(FieldSignedDateTime) {
		out.Set(FieldSignedDateTime, b.now().UTC().Format(timestampFormat))
	}
	if !out.Has(FieldTransactionUUID) {
		out.Set(FieldTransactionUUID, b.newUUID())
	}
}

// partition splits the current field names into the signed and unsigned
// subsets. Both subset-name fields belong to the signed set themselves.
// The returned lists are lexicographically sorted; signature stability
// depends on that sort.
func partition(f *Fields) (signed, unsigned []string) {
	for _, name := range f.Names() {
		if signedFields[name] {
			signed = append(signed, name)
		} else {
			unsigned = append(unsigned, name)
		}
	}
	if !f.Has(FieldSignedFieldNames) {
		signed = append(signed, FieldSignedFieldNames)
	}
	if !f.Has(FieldUnsignedFieldNames) {
		signed = append(signed, FieldUnsignedFieldNames)
	}
	sort.Strings(signed)
	sort.Strings(unsigned)
	return signed, unsigned
}

// HiddenInputs renders the field set as hidden form inputs joined by
// glue, in insertion order unless sorted output is requested.
func HiddenInputs(f *Fields, glue string, sorted bool) string {
	names := f.Names()
	if sorted {
		names = f.Sorted()
	}
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf(
			`<input type="hidden" name=%q value=%q />`,
			html.EscapeString(name), html.EscapeString(f.Value(name))))
	}
	return strings.Join(parts, glue)
}
