package checkout

import (
	"fmt"
	"regexp"
	"strings"

	"storefront/internal/domain"
)

type DeliveryMethod string

const (
	DeliveryNovaPoshta DeliveryMethod = "novaposhta"
	DeliveryUkrPoshta  DeliveryMethod = "ukrposhta"
	DeliveryCourier    DeliveryMethod = "courier"
)

type PaymentMethod string

const (
	PaymentCard PaymentMethod = "card"
	PaymentCash PaymentMethod = "cash"
)

// Form данные покупателя, которые собираются по шагам
type Form struct {
	FirstName      string         `json:"firstName"`
	LastName       string         `json:"lastName"`
	Email          string         `json:"email"`
	Phone          string         `json:"phone"`
	Address        string         `json:"address"`
	City           string         `json:"city"`
	PostalCode     string         `json:"postalCode"`
	DeliveryMethod DeliveryMethod `json:"deliveryMethod"`
	PaymentMethod  PaymentMethod  `json:"paymentMethod"`
	CardNumber     string         `json:"cardNumber"`
	CardExpiry     string         `json:"cardExpiry"`
	CardCvc        string         `json:"cardCvc"`
	Notes          string         `json:"notes"`
}

func NewForm() Form {
	return Form{DeliveryMethod: DeliveryNovaPoshta, PaymentMethod: PaymentCard}
}

// Set меняет одно поле формы по его json-имени
func (f *Form) Set(field, value string) error {
	switch field {
	case "firstName":
		f.FirstName = value
	case "lastName":
		f.LastName = value
	case "email":
		f.Email = value
	case "phone":
		f.Phone = value
	case "address":
		f.Address = value
	case "city":
		f.City = value
	case "postalCode":
		f.PostalCode = value
	case "deliveryMethod":
		switch m := DeliveryMethod(value); m {
		case DeliveryNovaPoshta, DeliveryUkrPoshta, DeliveryCourier:
			f.DeliveryMethod = m
		default:
			return fmt.Errorf("%w: unknown delivery method %q", domain.ErrInvalid, value)
		}
	case "paymentMethod":
		switch m := PaymentMethod(value); m {
		case PaymentCard, PaymentCash:
			f.PaymentMethod = m
		default:
			return fmt.Errorf("%w: unknown payment method %q", domain.ErrInvalid, value)
		}
	case "cardNumber":
		f.CardNumber = value
	case "cardExpiry":
		f.CardExpiry = value
	case "cardCvc":
		f.CardCvc = value
	case "notes":
		f.Notes = value
	default:
		return fmt.Errorf("%w: unknown field %q", domain.ErrInvalid, field)
	}
	return nil
}

// UserName имя получателя для заказа
func (f Form) UserName() string {
	return strings.TrimSpace(f.FirstName + " " + f.LastName)
}

// UserAddress адрес доставки для заказа
func (f Form) UserAddress() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{f.Address, f.City, f.PostalCode} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

var emailRe = regexp.MustCompile(`\S+@\S+\.\S+`)

// rule возвращает текст ошибки или пустую строку
type rule func(Form) string

func required(get func(Form) string, msg string) rule {
	return func(f Form) string {
		if strings.TrimSpace(get(f)) == "" {
			return msg
		}
		return ""
	}
}

func matches(re *regexp.Regexp, get func(Form) string, msg string) rule {
	return func(f Form) string {
		if !re.MatchString(get(f)) {
			return msg
		}
		return ""
	}
}

// first первая сработавшая ошибка из цепочки
func first(rules ...rule) rule {
	return func(f Form) string {
		for _, r := range rules {
			if msg := r(f); msg != "" {
				return msg
			}
		}
		return ""
	}
}

func when(cond func(Form) bool, r rule) rule {
	return func(f Form) string {
		if !cond(f) {
			return ""
		}
		return r(f)
	}
}

func payByCard(f Form) bool { return f.PaymentMethod == PaymentCard }

var stepRules = map[Step]map[string]rule{
	StepDetails: {
		"firstName": required(func(f Form) string { return f.FirstName }, "Введіть ім'я"),
		"lastName":  required(func(f Form) string { return f.LastName }, "Введіть прізвище"),
		"email": first(
			required(func(f Form) string { return f.Email }, "Введіть email"),
			matches(emailRe, func(f Form) string { return f.Email }, "Введіть коректний email"),
		),
		"phone": required(func(f Form) string { return f.Phone }, "Введіть номер телефону"),
	},
	StepShipping: {
		"address":    required(func(f Form) string { return f.Address }, "Введіть адресу"),
		"city":       required(func(f Form) string { return f.City }, "Введіть місто"),
		"postalCode": required(func(f Form) string { return f.PostalCode }, "Введіть поштовий індекс"),
	},
	StepPayment: {
		"cardNumber": when(payByCard, required(func(f Form) string { return f.CardNumber }, "Введіть номер картки")),
		"cardExpiry": when(payByCard, required(func(f Form) string { return f.CardExpiry }, "Введіть термін дії")),
		"cardCvc":    when(payByCard, required(func(f Form) string { return f.CardCvc }, "Введіть CVC код")),
	},
}

// Validate ошибки полей для шага; пустая карта: шаг заполнен
func Validate(step Step, f Form) map[string]string {
	errs := make(map[string]string)
	for field, r := range stepRules[step] {
		if msg := r(f); msg != "" {
			errs[field] = msg
		}
	}
	return errs
}
