package enums

// PaymentMethod enumerates how a customer intends to pay on delivery.
type PaymentMethod string

const (
	PaymentMethodPix    PaymentMethod = "pix"
	PaymentMethodCredit PaymentMethod = "credit"
	PaymentMethodMoney  PaymentMethod = "money"
)

// AllPaymentMethods lists every accepted value in display order.
func AllPaymentMethods() []PaymentMethod {
	return []PaymentMethod{PaymentMethodPix, PaymentMethodCredit, PaymentMethodMoney}
}

func (p PaymentMethod) IsValid() bool {
	switch p {
	case PaymentMethodPix, PaymentMethodCredit, PaymentMethodMoney:
		return true
	}
	return false
}

// Label returns the customer-facing pt-BR label used on formatted orders.
func (p PaymentMethod) Label() string {
	switch p {
	case PaymentMethodPix:
		return "Pix"
	case PaymentMethodCredit:
		return "Cartão"
	case PaymentMethodMoney:
		return "Dinheiro"
	}
	return string(p)
}
