package models

// IDSequence backs the shared monotonic id counter. A single row covers
// organizations, proposals and comments so ids are unique across all three.
type IDSequence struct {
	Name  string `gorm:"primarykey;type:varchar(50)"`
	Value uint64 `gorm:"not null"`
}
