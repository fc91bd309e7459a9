package main

import (
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/monaltech/saleor/internal/modules/cybersource"
)

// Builds a signed Secure Acceptance notification and posts it to the
// local webhook endpoint, so the reconciliation path can be exercised
// without a real gateway round-trip.
func main() {
	target := flag.String("url", "http://localhost:8080/webhooks/cybersource/notify", "Webhook URL")
	secret := flag.String("secret", os.Getenv("CYBERSOURCE_SECRET_KEY"), "Secret key")
	accessKey := flag.String("access-key", os.Getenv("CYBERSOURCE_ACCESS_KEY"), "Access key")
	profileID := flag.String("profile-id", os.Getenv("CYBERSOURCE_PROFILE_ID"), "Profile ID")
	reference := flag.String("reference", "", "req_reference_number (payment or order id)")
	token := flag.String("token", strings.ReplaceAll(uuid.NewString(), "-", ""), "req_transaction_uuid")
	amount := flag.String("amount", "50.00", "Amount")
	currency := flag.String("currency", "NPR", "Currency")
	decision := flag.String("decision", "ACCEPT", "Decision (ACCEPT, REVIEW, DECLINE, CANCEL, ERROR)")
	reasonCode := flag.String("reason-code", "100", "Reason code")
	txnType := flag.String("transaction-type", "authorization", "req_transaction_type (authorization, sale)")
	dryRun := flag.Bool("dry-run", false, "Only print the signed payload, don't send")

	flag.Parse()

	if *secret == "" {
		fmt.Fprintf(os.Stderr, "Error: secret not provided and CYBERSOURCE_SECRET_KEY not set\n")
		os.Exit(1)
	}
	if *reference == "" {
		fmt.Fprintf(os.Stderr, "Error: -reference is required\n")
		os.Exit(1)
	}

	data := map[string]string{
		"decision":             *decision,
		"reason_code":          *reasonCode,
		"message":              "Request was processed successfully.",
		"transaction_id":       uuid.NewString(),
		"signed_date_time":     time.Now().UTC().Format("2006-01-02T15:04:05Z"),
		"req_access_key":       *accessKey,
		"req_profile_id":       *profileID,
		"req_reference_number": *reference,
		"req_transaction_uuid": *token,
		"req_transaction_type": *txnType,
		"req_amount":           *amount,
		"req_currency":         *currency,
	}

	names := make([]string, 0, len(data)+1)
	for name := range data {
		names = append(names, name)
	}
	names = append(names, "signed_field_names")
	sort.Strings(names)
	data["signed_field_names"] = strings.Join(names, ",")

	signer := cybersource.NewSigner(*secret)
	signature, err := signer.Sign(cybersource.FieldsFrom(data), names)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error signing payload: %v\n", err)
		os.Exit(1)
	}
	data["signature"] = signature

	form := url.Values{}
	for name, value := range data {
		form.Set(name, value)
	}

	fmt.Printf("signature: %s\n", signature)
	fmt.Printf("body: %s\n", form.Encode())

	if *dryRun {
		fmt.Println("\n[DRY RUN] Not sending request")
		return
	}

	fmt.Printf("\nSending to %s...\n", *target)
	resp, err := http.PostForm(*target, form)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error sending request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	fmt.Printf("Status: %d\n", resp.StatusCode)
	fmt.Printf("Response: %s\n", string(body))

	if resp.StatusCode != http.StatusOK {
		os.Exit(1)
	}
}
