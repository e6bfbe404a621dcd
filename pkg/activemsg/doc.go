// Package activemsg composes and sends a single logical email, an "active message".
//
// A message type is any struct implementing Variant: it supplies the default
// sender, recipients, subject and HTML body. A Message wraps one variant for one
// send attempt and resolves each field lazily: an explicit value set through a
// setter wins, otherwise the variant default is computed on first read and kept.
//
// Send runs the composition pipeline in a fixed order:
//
//	validate -> snapshot data -> template overlay -> token substitution ->
//	mailer compose -> pre-send hooks -> mailer send
//
// Validation failures are returned as ACTIVEMSG_CONFIGURATION errors. A hook veto
// or a transport failure is not an error: Send simply reports false.
//
//	client := activemsg.NewClient(mailer,
//		activemsg.WithTemplateStore(store),
//		activemsg.WithHooks(msghook.Logging(nil)),
//	)
//
//	msg := client.New(&WelcomeMessage{User: u})
//	msg.SetSubject("Welcome aboard, {name}")
//	sent, err := msg.Send(ctx)
package activemsg
