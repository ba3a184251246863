package validate

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/victorsoaresho/vulcom-main-2025-2/internal/schema"
)

var now = time.Date(2026, time.October, 14, 15, 30, 0, 0, time.UTC)

func vehicle() *schema.Entity {
	return &schema.Entity{Name: "Vehicle", Fields: []schema.Field{
		{Name: "name", Kind: schema.String, Trim: true, RequiredMessage: "name required", TypeMessage: "name type",
			Rules: []schema.Rule{schema.MinLen(3, "name short"), schema.Contains(" ", "name space")}},
		{Name: "code", Kind: schema.String, Strip: "_", RequiredMessage: "code required", TypeMessage: "code type",
			Rules: []schema.Rule{schema.ExactLen(4, "code length")}},
		{Name: "note", Kind: schema.String, Optional: true, Trim: true, TypeMessage: "note type",
			Rules: []schema.Rule{schema.MaxLen(5, "note long")}},
		{Name: "color", Kind: schema.Enum, Enum: []string{"AZUL", "PRETO"}, RequiredMessage: "color required", TypeMessage: "color type",
			Rules: []schema.Rule{schema.OneOf([]string{"AZUL", "PRETO"}, "color enum")}},
		{Name: "year", Kind: schema.Integer, RequiredMessage: "year required", TypeMessage: "year type",
			Rules: []schema.Rule{schema.Integral("year int"), schema.Min(1960, "year min")}},
		{Name: "imported", Kind: schema.Boolean, RequiredMessage: "imported required", TypeMessage: "imported type"},
		{Name: "sold_on", Kind: schema.Date, Optional: true, TypeMessage: "sold type",
			Rules: []schema.Rule{schema.NotAfter(schema.Today(), "sold future")}},
		{Name: "price", Kind: schema.Decimal, Optional: true, TypeMessage: "price type",
			Rules: []schema.Rule{schema.Min(5000, "price min")}},
		{Name: "owner_id", Kind: schema.Reference, Target: "Owner", TypeMessage: "owner type",
			Rules: []schema.Rule{schema.Integral("owner int"), schema.Min(1, "owner min")}},
	}}
}

func validInput() map[string]any {
	return map[string]any{
		"name":     "  Fusca Azul  ",
		"code":     "AB_12",
		"color":    "AZUL",
		"year":     1970.0,
		"imported": false,
		"sold_on":  "2024-05-01",
		"price":    "7500.50",
		"owner_id": 3.0,
	}
}

func TestValidateNormalizes(t *testing.T) {
	res, err := Validate(vehicle(), validInput(), now)
	require.NoError(t, err)
	require.True(t, res.Valid(), res.Errors)

	assert.Equal(t, "Fusca Azul", res.Data.String("name"))
	assert.Equal(t, "AB12", res.Data.String("code"))
	assert.Equal(t, int64(1970), res.Data["year"])
	assert.Equal(t, 7500.5, *res.Data.FloatPtr("price"))
	assert.Equal(t, int64(3), *res.Data.IntPtr("owner_id"))
	assert.Equal(t, time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC), *res.Data.DatePtr("sold_on"))

	v, present := res.Data["note"]
	assert.True(t, present, "absent optional is kept as explicit nil")
	assert.Nil(t, v)
	assert.False(t, res.Data.Has("note"))
}

func TestValidateDropsUnknownAndKeepsInput(t *testing.T) {
	in := validInput()
	in["admin"] = true
	res, err := Validate(vehicle(), in, now)
	require.NoError(t, err)
	require.True(t, res.Valid())

	_, ok := res.Data["admin"]
	assert.False(t, ok)
	assert.Equal(t, "  Fusca Azul  ", in["name"], "input must not be modified")
	assert.Equal(t, "AB_12", in["code"])
}

func TestValidateIdempotent(t *testing.T) {
	first, err := Validate(vehicle(), validInput(), now)
	require.NoError(t, err)
	require.True(t, first.Valid())

	second, err := Validate(vehicle(), first.Data.Map(), now)
	require.NoError(t, err)
	require.True(t, second.Valid(), second.Errors)
	assert.Equal(t, first.Data, second.Data)
}

func TestValidateRequired(t *testing.T) {
	res, err := Validate(vehicle(), map[string]any{"imported": nil}, now)
	require.NoError(t, err)
	require.False(t, res.Valid())

	assert.Equal(t, []FieldError{
		{Field: "name", Message: "name required"},
		{Field: "code", Message: "code required"},
		{Field: "color", Message: "color required"},
		{Field: "year", Message: "year required"},
		{Field: "imported", Message: "imported required"},
	}, []FieldError(res.Errors))
	assert.Nil(t, res.Data)
}

func TestValidateFirstRuleWins(t *testing.T) {
	in := validInput()
	in["name"] = "ab"
	res, err := Validate(vehicle(), in, now)
	require.NoError(t, err)

	msg, ok := res.Errors.Get("name")
	require.True(t, ok)
	assert.Equal(t, "name short", msg)
	assert.Len(t, res.Errors, 1)
}

func TestValidateContinuesAcrossFields(t *testing.T) {
	in := validInput()
	in["code"] = "ABC"
	in["color"] = "azul"
	in["imported"] = "true"
	in["sold_on"] = "2026-10-15"
	res, err := Validate(vehicle(), in, now)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"code":     "code length",
		"color":    "color enum",
		"imported": "imported type",
		"sold_on":  "sold future",
	}, res.Errors.Map())
}

func TestValidateEmptyValues(t *testing.T) {
	in := validInput()
	in["note"] = "   "
	in["price"] = ""
	in["sold_on"] = nil
	in["owner_id"] = ""
	res, err := Validate(vehicle(), in, now)
	require.NoError(t, err)
	require.True(t, res.Valid(), res.Errors)

	for _, name := range []string{"note", "price", "sold_on", "owner_id"} {
		v, ok := res.Data[name]
		assert.True(t, ok, name)
		assert.Nil(t, v, name)
	}
}

func TestValidateTypeMessages(t *testing.T) {
	in := validInput()
	in["name"] = 10.0
	in["year"] = "mil"
	in["sold_on"] = "01/05/2024"
	in["owner_id"] = 2.5
	res, err := Validate(vehicle(), in, now)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"name":     "name type",
		"year":     "year type",
		"sold_on":  "sold type",
		"owner_id": "owner int",
	}, res.Errors.Map())
}

func TestValidateIntegerOutOfRange(t *testing.T) {
	for _, x := range []any{1e19, -1e19, 9223372036854775808.0, "1e19"} {
		in := validInput()
		in["owner_id"] = x
		in["year"] = x
		res, err := Validate(vehicle(), in, now)
		require.NoError(t, err)
		assert.Equal(t, map[string]string{
			"year":     "year type",
			"owner_id": "owner type",
		}, res.Errors.Map(), "%v", x)
	}

	in := validInput()
	in["owner_id"] = 9007199254740992.0
	res, err := Validate(vehicle(), in, now)
	require.NoError(t, err)
	require.True(t, res.Valid(), res.Errors)
	assert.Equal(t, int64(9007199254740992), *res.Data.IntPtr("owner_id"))
}

func TestValidateRequiredEmptyStringRunsRules(t *testing.T) {
	in := validInput()
	in["name"] = ""
	res, err := Validate(vehicle(), in, now)
	require.NoError(t, err)

	msg, _ := res.Errors.Get("name")
	assert.Equal(t, "name short", msg)
}

func TestValidateDateInLocation(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	in := validInput()
	// midnight in BRT sent as UTC
	in["sold_on"] = "2024-05-01T03:00:00.000Z"
	res, err := Validate(vehicle(), in, now.In(loc))
	require.NoError(t, err)
	require.True(t, res.Valid())

	got := *res.Data.DatePtr("sold_on")
	assert.Equal(t, time.Date(2024, time.May, 1, 0, 0, 0, 0, loc), got)
}

func TestValidateFaults(t *testing.T) {
	broken := &schema.Entity{Name: "Broken", Fields: []schema.Field{
		{Name: "x", Kind: schema.String, Optional: true, Rules: []schema.Rule{{Name: "nil"}}},
	}}
	_, err := Validate(broken, map[string]any{"x": "boom"}, now)
	assert.ErrorContains(t, err, "rule panicked")

	unknown := &schema.Entity{Name: "Odd", Fields: []schema.Field{{Name: "x", Kind: schema.Kind(99)}}}
	_, err = Validate(unknown, map[string]any{"x": 1.0}, now)
	assert.ErrorIs(t, err, errUnknownKind)

	_, err = Validate(nil, nil, now)
	assert.Error(t, err)
}

func TestFieldErrorsJSON(t *testing.T) {
	fe := FieldErrors{{Field: "plates", Message: "A placa"}, {Field: "brand", Message: "A marca \"x\""}}

	b, err := json.Marshal(fe)
	require.NoError(t, err)
	assert.Equal(t, `{"plates":"A placa","brand":"A marca \"x\""}`, string(b))

	b, err = json.Marshal(FieldErrors(nil))
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(b))

	assert.Equal(t, []Issue{
		{Path: []string{"plates"}, Message: "A placa"},
		{Path: []string{"brand"}, Message: "A marca \"x\""},
	}, fe.Issues())
}
