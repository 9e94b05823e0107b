// Package sink posts form payloads to an opaque third-party endpoint, such
// as a spreadsheet script web app, with a hard timeout.
//
// The endpoint is outside our control and gives no latency or response
// guarantees, so Send enforces its own ceiling and classifies failures
// instead of trusting the response:
//
//	client := sink.New(sink.WithTimeout(10 * time.Second))
//
//	_, err := client.Send(ctx, endpoint, sink.Fields{
//	    {Name: "userType", Value: "guest"},
//	    {Name: "name", Value: "Meena"},
//	})
//	switch {
//	case errors.Is(err, sink.ErrTimeout):
//	case errors.Is(err, sink.ErrNetwork):
//	case err != nil:
//	}
//
// # Response policy
//
// Many such endpoints redirect or answer with bodies that cannot be read
// reliably, so by default (PolicyOpaque) any completed exchange counts as
// delivered. PolicyStrict requires a 2xx status instead.
//
// WithAssumeDeliveredOnUnknown goes further and reports unclassified
// transport errors as delivered, flagged with Delivery.Assumed. It exists for
// endpoints known to fail noisily after accepting data; leave it off unless
// that has been verified, because real failures then look like success.
//
// Requests are never retried.
package sink
