package tmplmemory_test

import (
	"context"
	"testing"

	"github.com/Abraxas-365/activemail/pkg/activemsg"
	"github.com/Abraxas-365/activemail/pkg/errx"
	"github.com/Abraxas-365/activemail/pkg/tmplstore"
	"github.com/Abraxas-365/activemail/pkg/tmplstore/tmplmemory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := tmplmemory.NewMemoryStore(map[string]activemsg.TemplateOverride{
		"WelcomeMessage": {"subject": "Hi"},
	})

	o, err := s.Template(ctx, "WelcomeMessage")
	require.NoError(t, err)
	assert.Equal(t, activemsg.TemplateOverride{"subject": "Hi"}, o)

	o["subject"] = "mutated"
	o, _ = s.Template(ctx, "WelcomeMessage")
	assert.Equal(t, "Hi", o["subject"])

	missing, err := s.Template(ctx, "Nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, s.Save(ctx, "ResetMessage", activemsg.TemplateOverride{"from": "a@example.com"}))
	names, err := s.Names(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"ResetMessage", "WelcomeMessage"}, names)

	require.NoError(t, s.Delete(ctx, "ResetMessage"))
	names, _ = s.Names(ctx)
	assert.Equal(t, []string{"WelcomeMessage"}, names)

	err = s.Save(ctx, "../etc/passwd", nil)
	assert.True(t, errx.HasCode(err, tmplstore.ErrInvalidName))
}

func TestMemoryStore_WithClient(t *testing.T) {
	s := tmplmemory.NewMemoryStore(map[string]activemsg.TemplateOverride{
		"greeting": {"subject": "Override"},
	})
	m := activemsg.NewClient(nil, activemsg.WithTemplateStore(s)).New(greeting{})

	require.NoError(t, m.ApplyTemplate(context.Background()))
	assert.Equal(t, "Override", m.Subject())
}

type greeting struct{}

func (greeting) DefaultFrom() string     { return "a@example.com" }
func (greeting) DefaultTo() []string     { return []string{"b@example.com"} }
func (greeting) DefaultSubject() string  { return "Default" }
func (greeting) DefaultBodyHTML() string { return "<p>hi</p>" }
