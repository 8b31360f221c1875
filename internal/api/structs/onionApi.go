package structs

// ResultApi wraps every introspection answer. A nil Result is encoded as null.
type ResultApi struct {
	Result any `json:"result"`
}

// HopResultApi describes what a relay did with the last envelope it peeled.
type HopResultApi struct {
	Destination int    `json:"destination"`
	Forwarded   bool   `json:"forwarded"`
	Error       string `json:"error,omitempty"`
}
