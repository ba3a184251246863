package models

import (
	"fmt"
	"regexp"
	"time"

	"github.com/victorsoaresho/vulcom-main-2025-2/internal/reference"
	s "github.com/victorsoaresho/vulcom-main-2025-2/internal/schema"
)

const (
	EntityCustomer = "Customer"
	EntityCar      = "Car"
	EntityUser     = "User"
)

// Schemas are the immutable entity definitions shared by every request.
type Schemas struct {
	Customer *s.Entity
	Car      *s.Entity
	User     *s.Entity
	// UserUpdate differs from User only by an optional password.
	UserUpdate *s.Entity
}

// NewSchemas builds the schemas; enum values come from the catalog.
func NewSchemas(cat reference.Catalog) (*Schemas, error) {
	colors := cat.Codes(reference.Colors)
	if len(colors) == 0 {
		return nil, fmt.Errorf("catalog %q is empty or missing", reference.Colors)
	}
	states := cat.Codes(reference.States)
	if len(states) == 0 {
		return nil, fmt.Errorf("catalog %q is empty or missing", reference.States)
	}
	user := userSchema()
	return &Schemas{
		Customer:   customerSchema(states),
		Car:        carSchema(colors),
		User:       user,
		UserUpdate: user.WithOptional("password"),
	}, nil
}

func (sc *Schemas) Registry() s.Registry {
	return s.NewRegistry(sc.Customer, sc.Car, sc.User)
}

func customerSchema(states []string) *s.Entity {
	return &s.Entity{Name: EntityCustomer, DisplayField: "name", Fields: []s.Field{
		{Name: "name", Kind: s.String, Trim: true,
			RequiredMessage: "O nome é obrigatório.", TypeMessage: "Formato de nome inválido.",
			Rules: []s.Rule{
				s.MinLen(5, "O nome deve ter, no mínimo, 5 caracteres."),
				s.MaxLen(100, "O nome deve ter, no máximo, 100 caracteres."),
				s.Contains(" ", "O nome teve ter um espaço em branco separando prenome e sobrenome."),
			}},
		{Name: "ident_document", Kind: s.String, Strip: "_",
			RequiredMessage: "O CPF é obrigatório.", TypeMessage: "Formato de CPF inválido.",
			Rules: []s.Rule{
				s.ExactLen(14, "O CPF deve ter, exatamente, 14 caracteres."),
				s.CPF("CPF inválido."),
			}},
		{Name: "birth_date", Kind: s.Date, Optional: true,
			TypeMessage: "Data de nascimento inválida.",
			Rules: []s.Rule{
				s.NotBefore(s.YearsAgo(120), "Data de nascimento está muito no passado."),
				s.NotAfter(s.YearsAgo(18), "O cliente deve ser maior de 18 anos."),
			}},
		{Name: "street_name", Kind: s.String, Trim: true,
			RequiredMessage: "O logradouro é obrigatório.", TypeMessage: "Formato de logradouro inválido.",
			Rules: []s.Rule{
				s.MinLen(1, "Logradouro deve ter, pelo menos, 1 caractere."),
				s.MaxLen(40, "Logradouro pode ter, no máximo, 40 caracteres."),
			}},
		{Name: "house_number", Kind: s.String, Trim: true,
			RequiredMessage: "O número do imóvel é obrigatório.", TypeMessage: "Formato de número do imóvel inválido.",
			Rules: []s.Rule{
				s.MinLen(1, "O número do imóvel deve ter, pelo menos, 1 caractere."),
				s.MaxLen(10, "O número do imóvel pode ter, no máximo, 10 caracteres."),
			}},
		{Name: "complements", Kind: s.String, Trim: true, Optional: true,
			TypeMessage: "Formato de complemento inválido.",
			Rules: []s.Rule{
				s.MaxLen(20, "Complemento pode ter, no máximo, 20 caracteres."),
			}},
		{Name: "district", Kind: s.String, Trim: true,
			RequiredMessage: "O bairro é obrigatório.", TypeMessage: "Formato de bairro inválido.",
			Rules: []s.Rule{
				s.MinLen(1, "Bairro deve ter, no mínimo, 1 caractere."),
				s.MaxLen(25, "Bairro pode ter, no máximo, 25 caracteres."),
			}},
		{Name: "municipality", Kind: s.String, Trim: true,
			RequiredMessage: "O município é obrigatório.", TypeMessage: "Formato de município inválido.",
			Rules: []s.Rule{
				s.MinLen(1, "Município deve ter, no mínimo, 1 caractere."),
				s.MaxLen(40, "Município pode ter, no máximo, 40 caracteres."),
			}},
		{Name: "state", Kind: s.Enum, Enum: states,
			RequiredMessage: "Unidade da Federação inválida.", TypeMessage: "Unidade da Federação inválida.",
			Rules: []s.Rule{s.OneOf(states, "Unidade da Federação inválida.")}},
		{Name: "phone", Kind: s.String, Strip: "_",
			RequiredMessage: "O telefone é obrigatório.", TypeMessage: "Formato de telefone inválido.",
			Rules: []s.Rule{
				s.ExactLen(15, "O número do telefone/celular deve ter exatas 15 posições."),
			}},
		{Name: "email", Kind: s.String, Trim: true,
			RequiredMessage: "O e-mail é obrigatório.", TypeMessage: "E-mail inválido.",
			Rules: []s.Rule{
				s.MaxLen(50, "O e-mail pode ter, no máximo, 50 caracteres."),
				s.Email("E-mail inválido."),
			}},
	}}
}

func carSchema(colors []string) *s.Entity {
	return &s.Entity{Name: EntityCar, DisplayField: "brand", Fields: []s.Field{
		{Name: "brand", Kind: s.String,
			RequiredMessage: "A marca é obrigatória.", TypeMessage: "Formato de marca inválido.",
			Rules: []s.Rule{
				s.MinLen(1, "A marca deve ter pelo menos 1 caractere."),
				s.MaxLen(25, "A marca deve ter no máximo 25 caracteres."),
			}},
		{Name: "model", Kind: s.String,
			RequiredMessage: "O modelo é obrigatório.", TypeMessage: "Formato de modelo inválido.",
			Rules: []s.Rule{
				s.MinLen(1, "O modelo deve ter pelo menos 1 caractere."),
				s.MaxLen(25, "O modelo deve ter no máximo 25 caracteres."),
			}},
		{Name: "color", Kind: s.Enum, Enum: colors,
			RequiredMessage: "A cor é obrigatória.", TypeMessage: "A cor deve ser uma das opções válidas.",
			Rules: []s.Rule{s.OneOf(colors, "A cor deve ser uma das opções válidas.")}},
		{Name: "year_manufacture", Kind: s.Integer,
			RequiredMessage: "O ano de fabricação é obrigatório.",
			TypeMessage:     "O ano de fabricação deve ser um número inteiro.",
			Rules: []s.Rule{
				s.Integral("O ano de fabricação deve ser um número inteiro."),
				s.Min(1960, "O ano de fabricação não pode ser anterior a 1960."),
				s.MaxCurrentYear(func(year int) string {
					return fmt.Sprintf("O ano de fabricação não pode ser posterior a %d.", year)
				}),
			}},
		{Name: "imported", Kind: s.Boolean,
			RequiredMessage: "A informação de importado é obrigatória.",
			TypeMessage:     "O campo importado deve ser um valor booleano."},
		{Name: "plates", Kind: s.String,
			RequiredMessage: "A placa é obrigatória.", TypeMessage: "Formato de placa inválido.",
			Rules: []s.Rule{
				s.ExactLen(8, "A placa deve ter exatamente 8 caracteres, no formato AAA-9A99."),
			}},
		{Name: "selling_date", Kind: s.Date, Optional: true,
			TypeMessage: "Data de venda inválida.",
			Rules: []s.Rule{
				s.NotBefore(s.FixedDay(2020, time.March, 20), "A data de venda não pode ser anterior a 20/03/2020."),
				s.NotAfter(s.Today(), "A data de venda não pode ser posterior à data de hoje."),
			}},
		{Name: "selling_price", Kind: s.Decimal, Optional: true,
			TypeMessage: "O preço de venda deve ser um número.",
			Rules: []s.Rule{
				s.Min(5000, "O preço de venda deve ser no mínimo R$ 5.000,00."),
				s.Max(5000000, "O preço de venda deve ser no máximo R$ 5.000.000,00."),
			}},
		{Name: "customer_id", Kind: s.Reference, Target: EntityCustomer,
			TypeMessage: "Formato de ID de cliente inválido.",
			Rules: []s.Rule{
				s.Integral("O ID do cliente deve ser um número inteiro."),
				s.Min(1, "O ID do cliente é inválido."),
			}},
	}}
}

var (
	usernameChars = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)
	hasUpper      = regexp.MustCompile(`[A-Z]`)
	hasLower      = regexp.MustCompile(`[a-z]`)
	hasDigit      = regexp.MustCompile(`[0-9]`)
	hasSymbol     = regexp.MustCompile(`[^A-Za-z0-9]`)
)

func userSchema() *s.Entity {
	return &s.Entity{Name: EntityUser, DisplayField: "fullname", Fields: []s.Field{
		{Name: "fullname", Kind: s.String, Trim: true,
			RequiredMessage: "O nome completo é obrigatório.", TypeMessage: "Formato de nome inválido.",
			Rules: []s.Rule{
				s.MinLen(5, "O nome deve ter, no mínimo, 5 caracteres."),
				s.MaxLen(50, "O nome deve ter, no máximo, 50 caracteres."),
				s.Contains(" ", "O nome deve ter um espaço em branco separando prenome e sobrenome."),
			}},
		{Name: "username", Kind: s.String, Trim: true,
			RequiredMessage: "O nome de usuário é obrigatório.", TypeMessage: "Formato de nome de usuário inválido.",
			Rules: []s.Rule{
				s.MinLen(5, "O nome de usuário deve ter, no mínimo, 5 caracteres."),
				s.MaxLen(20, "O nome de usuário deve ter, no máximo, 20 caracteres."),
				s.Pattern(usernameChars, "O nome de usuário pode conter apenas letras, dígitos, ponto, hífen e sublinhado."),
			}},
		{Name: "email", Kind: s.String, Trim: true,
			RequiredMessage: "O e-mail é obrigatório.", TypeMessage: "E-mail inválido.",
			Rules: []s.Rule{
				s.MaxLen(50, "O e-mail pode ter, no máximo, 50 caracteres."),
				s.Email("E-mail inválido."),
			}},
		{Name: "password", Kind: s.String,
			RequiredMessage: "A senha é obrigatória.", TypeMessage: "Formato de senha inválido.",
			Rules: []s.Rule{
				s.MinLen(8, "A senha deve ter, no mínimo, 8 caracteres."),
				s.MaxLen(50, "A senha deve ter, no máximo, 50 caracteres."),
				s.MaxBytes(72, "A senha contém caracteres acentuados demais."),
				s.Pattern(hasUpper, "A senha deve conter pelo menos uma letra maiúscula."),
				s.Pattern(hasLower, "A senha deve conter pelo menos uma letra minúscula."),
				s.Pattern(hasDigit, "A senha deve conter pelo menos um dígito."),
				s.Pattern(hasSymbol, "A senha deve conter pelo menos um caractere especial."),
			}},
		{Name: "is_admin", Kind: s.Boolean, Optional: true,
			TypeMessage: "O campo administrador deve ser um valor booleano."},
	}}
}
