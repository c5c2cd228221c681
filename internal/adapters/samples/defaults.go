package samples

import _ "embed"

// defaultSamplesYAML holds the bundled sample transcripts used when no
// samples file is configured.
//
//go:embed samples.yaml
var defaultSamplesYAML []byte
