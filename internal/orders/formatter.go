package orders

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/brunovilar/pedezap-backend/internal/cart"
	"github.com/brunovilar/pedezap-backend/pkg/enums"
)

const timestampLayout = "02/01/2006 15:04:05"

var nonDigitRe = regexp.MustCompile(`\D`)

// Draft is the transient order assembled at checkout. It is formatted into
// the WhatsApp handoff message and never persisted.
type Draft struct {
	StoreName     string
	CustomerName  string
	Phone         string
	Address       string
	Lines         []cart.Line
	DeliveryFee   decimal.Decimal
	Total         decimal.Decimal
	PaymentMethod enums.PaymentMethod
	ChangeFor     *decimal.Decimal
	FinalNote     string
}

// Formatter renders order drafts into the pt-BR WhatsApp message. The clock
// and timezone are injected so the output is deterministic under test.
type Formatter struct {
	now func() time.Time
	loc *time.Location
}

// NewFormatter builds a formatter for the given IANA timezone. A nil clock
// defaults to time.Now.
func NewFormatter(timezone string, now func() time.Time) (*Formatter, error) {
	if timezone == "" {
		return nil, fmt.Errorf("timezone is required")
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", timezone, err)
	}
	if now == nil {
		now = time.Now
	}
	return &Formatter{now: now, loc: loc}, nil
}

// FormatOrder renders the message and its percent-encoded form for the
// wa.me text parameter.
func (f *Formatter) FormatOrder(draft Draft) (text string, encoded string) {
	var b strings.Builder

	fmt.Fprintf(&b, "🍔 Pedido - %s\n\n", draft.StoreName)
	fmt.Fprintf(&b, "👤 Cliente: %s\n", draft.CustomerName)
	fmt.Fprintf(&b, "📞 Telefone: %s\n", draft.Phone)
	fmt.Fprintf(&b, "📍 Endereço: %s\n\n", draft.Address)

	b.WriteString("Itens:\n")
	for _, line := range draft.Lines {
		fmt.Fprintf(&b, "%dx %s - %s\n", line.Quantity, line.Product.Name, FormatBRL(line.Product.Price))
		for _, extra := range line.Extras {
			fmt.Fprintf(&b, "  + %s (%s)\n", extra.Name, FormatBRL(extra.Price))
		}
		if line.Note != "" {
			fmt.Fprintf(&b, "  Obs: %s\n", line.Note)
		}
	}

	fmt.Fprintf(&b, "\n🚚 Taxa: %s\n", FormatBRL(draft.DeliveryFee))
	fmt.Fprintf(&b, "💰 Total: %s\n\n", FormatBRL(draft.Total))

	fmt.Fprintf(&b, "💳 Pagamento: %s", draft.PaymentMethod.Label())
	if draft.PaymentMethod == enums.PaymentMethodMoney && draft.ChangeFor != nil {
		fmt.Fprintf(&b, "\n🔄 Troco para: %s", FormatBRL(*draft.ChangeFor))
	}

	if draft.FinalNote != "" {
		fmt.Fprintf(&b, "\n📝 Obs: %s", draft.FinalNote)
	}

	fmt.Fprintf(&b, "\n🕒 Data/Hora: %s", f.now().In(f.loc).Format(timestampLayout))

	text = b.String()
	return text, encodeMessage(text)
}

// BuildHandoffLink assembles the wa.me deep link from a raw phone number and
// an already-encoded message. Formatting noise in the number is stripped, not
// rejected: a malformed number still yields a link, it just will not open a
// conversation.
func BuildHandoffLink(rawPhone string, encoded string) string {
	digits := nonDigitRe.ReplaceAllString(rawPhone, "")
	return fmt.Sprintf("https://wa.me/%s?text=%s", digits, encoded)
}

// FormatBRL renders a decimal as pt-BR currency: "R$ 1.234,56".
func FormatBRL(value decimal.Decimal) string {
	fixed := value.StringFixed(2)

	negative := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")

	parts := strings.SplitN(fixed, ".", 2)
	intPart, fracPart := parts[0], parts[1]

	var grouped strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			grouped.WriteByte('.')
		}
		grouped.WriteRune(digit)
	}

	sign := ""
	if negative {
		sign = "-"
	}
	return fmt.Sprintf("%sR$ %s,%s", sign, grouped.String(), fracPart)
}

// encodeMessage percent-encodes for a query value with %20 for spaces, the
// form wa.me links use in the wild.
func encodeMessage(text string) string {
	return strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
}
