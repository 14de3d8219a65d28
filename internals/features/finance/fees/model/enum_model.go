// file: internals/features/finance/fees/model/enum_model.go
package model

import "strings"

type FeeType string
type PaymentStatus string
type PaymentMethod string

/* ===================== Fee types ===================== */

const (
	FeeTypeTotal         FeeType = "total_fee" // pays every category at once
	FeeTypeTuition       FeeType = "tuition_fee"
	FeeTypeHostel        FeeType = "hostel_fee"
	FeeTypeSecurity      FeeType = "security_fee"
	FeeTypeACCharge      FeeType = "ac_charge"
	FeeTypeMiscellaneous FeeType = "miscellaneous_fee"
	FeeTypeFine          FeeType = "fine" // never checked against a total
)

// Categories is the closed set of fee-structure categories, in display order.
var Categories = []FeeType{
	FeeTypeTuition,
	FeeTypeHostel,
	FeeTypeSecurity,
	FeeTypeACCharge,
	FeeTypeMiscellaneous,
}

// FeeTypeDisplayOrder is the order the fee desk lists fee types in.
var FeeTypeDisplayOrder = []FeeType{
	FeeTypeTotal,
	FeeTypeTuition,
	FeeTypeHostel,
	FeeTypeSecurity,
	FeeTypeACCharge,
	FeeTypeMiscellaneous,
	FeeTypeFine,
}

var feeTypeLabels = map[FeeType]string{
	FeeTypeTotal:         "Total fee",
	FeeTypeTuition:       "Tuition Fee",
	FeeTypeHostel:        "Hostel Fee",
	FeeTypeSecurity:      "Security Fee",
	FeeTypeACCharge:      "AC Charge",
	FeeTypeMiscellaneous: "Miscellaneous Fee",
	FeeTypeFine:          "Fine",
}

func (t FeeType) Label() string {
	if l, ok := feeTypeLabels[t]; ok {
		return l
	}
	return string(t)
}

func (t FeeType) IsCategory() bool {
	switch t {
	case FeeTypeTuition, FeeTypeHostel, FeeTypeSecurity, FeeTypeACCharge, FeeTypeMiscellaneous:
		return true
	}
	return false
}

func (t FeeType) IsKnown() bool {
	return t.IsCategory() || t == FeeTypeTotal || t == FeeTypeFine
}

// ParseFeeType menerima kode ("tuition_fee") maupun label lama portal ("Tuition Fee").
func ParseFeeType(s string) (FeeType, bool) {
	norm := strings.ToLower(strings.TrimSpace(s))
	if norm == "" {
		return "", false
	}
	if t := FeeType(norm); t.IsKnown() {
		return t, true
	}
	for t, label := range feeTypeLabels {
		if strings.ToLower(label) == norm {
			return t, true
		}
	}
	return "", false
}

/* ===================== Payment status ===================== */

const (
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusPending PaymentStatus = "pending"
)

// IsPaid: status kosong / tidak dikenal dianggap belum bayar.
func (s PaymentStatus) IsPaid() bool {
	return PaymentStatus(strings.ToLower(strings.TrimSpace(string(s)))) == PaymentStatusPaid
}

/* ===================== Payment method ===================== */

const (
	PaymentMethodCash      PaymentMethod = "cash"
	PaymentMethodChequeDD  PaymentMethod = "cheque_dd"
	PaymentMethodUPIOrBank PaymentMethod = "upi_netbanking_rtgs"
)

var paymentMethodLabels = map[PaymentMethod]string{
	PaymentMethodCash:      "Cash",
	PaymentMethodChequeDD:  "Cheque/DD",
	PaymentMethodUPIOrBank: "UPI/Net Banking/RTGS",
}

func (m PaymentMethod) Label() string {
	if l, ok := paymentMethodLabels[m]; ok {
		return l
	}
	return string(m)
}

func (m PaymentMethod) IsKnown() bool {
	_, ok := paymentMethodLabels[m]
	return ok
}

func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	norm := strings.ToLower(strings.TrimSpace(s))
	if norm == "" {
		return "", false
	}
	if m := PaymentMethod(norm); m.IsKnown() {
		return m, true
	}
	for m, label := range paymentMethodLabels {
		if strings.ToLower(label) == norm {
			return m, true
		}
	}
	return "", false
}
