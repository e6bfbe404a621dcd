package activemsg

import "context"

type sendOptions struct {
	runValidation bool
}

// SendOption configures a single Send call.
type SendOption func(*sendOptions)

// SkipValidation sends without running the Validator first.
func SkipValidation() SendOption {
	return func(o *sendOptions) {
		o.runValidation = false
	}
}

// WithValidation toggles validation explicitly.
func WithValidation(run bool) SendOption {
	return func(o *sendOptions) {
		o.runValidation = run
	}
}

// Send runs the pipeline once: validate, snapshot the substitution data,
// overlay the stored template, substitute tokens, compose through the mailer,
// run the pre-send hooks and deliver.
//
// The substitution data is captured before the overlay, so tokens resolve to
// pre-overlay attribute values. A hook veto or a transport failure returns
// false with a nil error, and Vetoed tells the two apart; only an invalid message or a failing collaborator
// returns an error.
func (m *Message) Send(ctx context.Context, opts ...SendOption) (bool, error) {
	so := sendOptions{runValidation: true}
	for _, o := range opts {
		o(&so)
	}
	m.vetoed = false

	name := m.TemplateName()
	mailer := m.client.mailer
	if mailer == nil {
		return false, activemsgErrors.New(ErrNoMailer).WithDetail("template", name)
	}

	if so.runValidation && !m.Validate() {
		return false, activemsgErrors.NewWithMessage(ErrConfiguration, m.ErrorSummary(DefaultGlue)).
			WithDetail("template", name).
			WithDetail("errors", m.Errors())
	}

	data := m.ComposeTemplateData()

	if err := m.ApplyTemplate(ctx); err != nil {
		return false, err
	}

	m.ApplyParse(data)
	data[DataKeyActiveMessage] = m

	tm, err := mailer.Compose(ctx, m.ViewName(), data)
	if err != nil {
		return false, activemsgErrors.NewWithCause(ErrCompose, err).
			WithDetail("template", name).
			WithDetail("view", m.ViewName())
	}

	from := m.From()
	tm.SetSubject(m.Subject()).SetTo(m.To()...).SetFrom(from).SetReplyTo(from)

	if !m.beforeSend(ctx, tm) {
		m.vetoed = true
		m.client.log().WithField("template", name).Debug("activemsg: send vetoed by pre-send hook")
		return false, nil
	}

	sent := mailer.Send(ctx, tm)
	m.client.log().
		WithField("template", name).
		WithField("sent", sent).
		Debug("activemsg: message handed to mailer")

	return sent, nil
}
