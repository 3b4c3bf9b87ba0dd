package domain

// SnapshotStore persists whole JSON documents under fixed keys
type SnapshotStore interface {
	Load(key string, dest any) (bool, error)
	Save(key string, value any) error
	Close() error
}
