package notifx

import (
	"bytes"
	htmltemplate "html/template"
	"sync"
	texttemplate "text/template"

	"github.com/Abraxas-365/activemail/pkg/activemsg"
)

// Views render the final bodies of an active message. The default view writes
// the message's parsed bodies unchanged; custom views can wrap them in a layout.
const (
	defaultHTMLView = `{{raw .activeMessage.BodyHTML}}`
	defaultTextView = `{{.activeMessage.BodyText}}`
)

// view is one named pair of templates. Either side may be nil.
type view struct {
	html *htmltemplate.Template
	text *texttemplate.Template
}

// ViewRegistry stores and renders named html/text template pairs.
type ViewRegistry struct {
	views map[string]view
	mu    sync.RWMutex
}

// NewViewRegistry creates a registry holding the default active message view.
func NewViewRegistry() *ViewRegistry {
	r := &ViewRegistry{views: make(map[string]view)}
	if err := r.Register(activemsg.DefaultViewName, defaultHTMLView, defaultTextView); err != nil {
		panic(err)
	}
	return r
}

// Register parses and stores a view by name. An empty source leaves that side
// of the view unrendered. Templates can call raw to emit trusted HTML unescaped.
func (r *ViewRegistry) Register(name, htmlSrc, textSrc string) error {
	var v view

	if htmlSrc != "" {
		t, err := htmltemplate.New(name).Funcs(htmltemplate.FuncMap{"raw": raw}).Parse(htmlSrc)
		if err != nil {
			return notifxErrors.NewWithCause(ErrViewParse, err).WithDetail("view", name).WithDetail("part", "html")
		}
		v.html = t
	}

	if textSrc != "" {
		t, err := texttemplate.New(name).Parse(textSrc)
		if err != nil {
			return notifxErrors.NewWithCause(ErrViewParse, err).WithDetail("view", name).WithDetail("part", "text")
		}
		v.text = t
	}

	r.mu.Lock()
	r.views[name] = v
	r.mu.Unlock()

	return nil
}

// Has reports whether a view is registered under name.
func (r *ViewRegistry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.views[name]
	return ok
}

// Render executes the named view with data and returns the html and text bodies.
func (r *ViewRegistry) Render(name string, data any) (htmlBody, textBody string, err error) {
	r.mu.RLock()
	v, ok := r.views[name]
	r.mu.RUnlock()

	if !ok {
		return "", "", notifxErrors.New(ErrViewNotFound).WithDetail("view", name)
	}

	if v.html != nil {
		var buf bytes.Buffer
		if err := v.html.Execute(&buf, data); err != nil {
			return "", "", notifxErrors.NewWithCause(ErrViewRender, err).WithDetail("view", name).WithDetail("part", "html")
		}
		htmlBody = buf.String()
	}

	if v.text != nil {
		var buf bytes.Buffer
		if err := v.text.Execute(&buf, data); err != nil {
			return "", "", notifxErrors.NewWithCause(ErrViewRender, err).WithDetail("view", name).WithDetail("part", "text")
		}
		textBody = buf.String()
	}

	return htmlBody, textBody, nil
}

func raw(s string) htmltemplate.HTML {
	return htmltemplate.HTML(s)
}
