package htmlserializer

// Options configures Serialize (spec §4.1). Built with the pack's
// value-receiver WithX(...) T pattern (jacoelho-xsd's
// options.go/options_methods.go), so callers chain
// NewOptions().WithInnerXML(true) rather than passing positional bools.
type Options struct {
	smartQuote     bool
	innerXML       bool
	captureOffsets bool
}

// NewOptions returns the spec's defaults: smartQuote=true,
// innerXML=false, captureOffsets=false.
func NewOptions() Options {
	return Options{smartQuote: true}
}

// WithSmartQuote controls whether the attribute-quote style is chosen to
// minimize escapes (spec §4.1 "Entity escaping").
func (o Options) WithSmartQuote(v bool) Options {
	o.smartQuote = v
	return o
}

// WithInnerXML, when true, serializes only node's children rather than
// node itself, and suppresses the DOCTYPE prelude.
func (o Options) WithInnerXML(v bool) Options {
	o.innerXML = v
	return o
}

// WithCaptureOffsets enables per-body-child byte offset capture (spec
// §4.1 "Offsets").
func (o Options) WithCaptureOffsets(v bool) Options {
	o.captureOffsets = v
	return o
}
