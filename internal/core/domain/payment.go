package domain

import "fmt"

// PaymentMethod is the optional confirmation gate selected before checkout.
// The zero value means no method was selected and the gate is skipped.
type PaymentMethod string

const (
	PaymentNone          PaymentMethod = ""
	PaymentCreditCard    PaymentMethod = "CREDIT_CARD"
	PaymentDebitCard     PaymentMethod = "DEBIT_CARD"
	PaymentDigitalWallet PaymentMethod = "DIGITAL_WALLET"
)

// PaymentMethods lists the selectable methods in menu order.
var PaymentMethods = []PaymentMethod{PaymentCreditCard, PaymentDebitCard, PaymentDigitalWallet}

var paymentLabels = map[PaymentMethod]string{
	PaymentCreditCard:    "Credit Card",
	PaymentDebitCard:     "Debit Card",
	PaymentDigitalWallet: "Digital Wallet",
}

// Valid reports whether m is one of the named methods.
func (m PaymentMethod) Valid() bool {
	_, ok := paymentLabels[m]
	return ok
}

func (m PaymentMethod) Label() string {
	if l, ok := paymentLabels[m]; ok {
		return l
	}
	return string(m)
}

// PaymentMethodFromChoice maps a 1-based menu choice onto a method.
func PaymentMethodFromChoice(choice int) (PaymentMethod, error) {
	if choice < 1 || choice > len(PaymentMethods) {
		return PaymentNone, fmt.Errorf("%w: choice %d", ErrInvalidPayment, choice)
	}
	return PaymentMethods[choice-1], nil
}
