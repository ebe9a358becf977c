package interfaces

// Repository defines the interface for data persistence
type Repository interface {
	Brief() BriefRepository

	Close() error
}
