package domain

import "fmt"

// External references identify the originating business event of a posting
// and act as its idempotency key. The payment references for one invoice
// share a common prefix so partial payments can be aggregated together.

// InvoiceIssuanceReference is the external reference for an invoice
// issuance posting.
func InvoiceIssuanceReference(invoiceID string) string {
	return fmt.Sprintf("invoice-%s-issuance", invoiceID)
}

// InvoicePaymentReference is the external reference for one captured
// payment against an invoice.
func InvoicePaymentReference(invoiceID, paymentID string) string {
	return fmt.Sprintf("invoice-%s-payment-%s", invoiceID, paymentID)
}

// InvoicePaymentPrefix matches every payment posting for an invoice.
func InvoicePaymentPrefix(invoiceID string) string {
	return fmt.Sprintf("invoice-%s-payment", invoiceID)
}

// ReversalReference derives the external reference of the entry that
// reverses the entry posted under ref.
func ReversalReference(ref string) string {
	return ref + "-reversal"
}
