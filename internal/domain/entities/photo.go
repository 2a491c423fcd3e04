package entities

// Photo is one uploaded damage photo held in memory for analysis.
type Photo struct {
	Name     string
	MIMEType string
	Data     []byte
}
