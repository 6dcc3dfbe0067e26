package port

import "inspire/internal/domain"

// PublicationSource loads publication records from a data directory.
type PublicationSource interface {
	Load(dir string) ([]domain.Publication, error)
}
