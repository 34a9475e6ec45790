package domain

import "fmt"

// StoragePosition identifies a logical storage destination. Each position maps to exactly
// one bucket and credential set, resolved once when the storage client is built.
type StoragePosition string

const (
	PositionOriginal   StoragePosition = "original"
	PositionPreview    StoragePosition = "preview"
	PositionDerivative StoragePosition = "derivative"
)

// Positions lists every known position in resolution order
var Positions = []StoragePosition{PositionOriginal, PositionPreview, PositionDerivative}

// Validate returns an error for positions outside the closed set
func (p StoragePosition) Validate() error {
	switch p {
	case PositionOriginal, PositionPreview, PositionDerivative:
		return nil
	default:
		return fmt.Errorf("unknown storage position %q", string(p))
	}
}

func (p StoragePosition) String() string {
	return string(p)
}
