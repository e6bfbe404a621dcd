package msgvalidator_test

import (
	"testing"

	"github.com/Abraxas-365/activemail/pkg/activemsg"
	"github.com/Abraxas-365/activemail/pkg/activemsg/msgvalidator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator_Required(t *testing.T) {
	v, err := msgvalidator.New()
	require.NoError(t, err)

	errs := v.Validate([]activemsg.Attribute{
		{Name: "from", Value: "", Rules: activemsg.RuleRequired},
		{Name: "to", Value: []string{}, Rules: activemsg.RuleRequired},
		{Name: "subject", Value: "   ", Rules: activemsg.RuleRequired},
		{Name: "bodyHtml", Value: "<p>hi</p>", Rules: activemsg.RuleRequired},
		{Name: "name", Value: nil, Rules: activemsg.RuleRequired},
	})

	assert.Equal(t, activemsg.FieldErrors{
		"from":    {"from cannot be blank."},
		"to":      {"to cannot be blank."},
		"subject": {"subject cannot be blank."},
		"name":    {"name cannot be blank."},
	}, errs)
}

func TestValidator_OtherRules(t *testing.T) {
	v, err := msgvalidator.New()
	require.NoError(t, err)

	errs := v.Validate([]activemsg.Attribute{
		{Name: "from", Value: "not-an-address", Rules: "required,email"},
		{Name: "replyTo", Value: "ops@example.com", Rules: "required,email"},
		{Name: "note", Value: "", Rules: ""},
	})

	require.Len(t, errs["from"], 1)
	assert.Contains(t, errs["from"][0], "valid email")
	assert.NotContains(t, errs, "replyTo")
	assert.NotContains(t, errs, "note")
}

func TestValidator_WithMessage(t *testing.T) {
	v, err := msgvalidator.New()
	require.NoError(t, err)

	m := activemsg.NewClient(nil, activemsg.WithValidator(v)).New(blankFrom{})

	assert.False(t, m.Validate())
	assert.Equal(t, "from cannot be blank.", m.ErrorSummary("\n"))
}

type blankFrom struct{}

func (blankFrom) DefaultFrom() string     { return "" }
func (blankFrom) DefaultTo() []string     { return []string{"to@example.com"} }
func (blankFrom) DefaultSubject() string  { return "subject" }
func (blankFrom) DefaultBodyHTML() string { return "<p>body</p>" }
