package storage

import (
	"os"
)

// sqliteSidecars are the files SQLite keeps next to the main database.
var sqliteSidecars = []string{"", "-wal", "-shm", "-journal"}

// DatabaseFileBytes returns the on-disk size of the SQLite database at dbPath
// including its WAL, shared-memory and rollback journal files. Missing files
// contribute 0.
func DatabaseFileBytes(dbPath string) (int64, error) {
	if dbPath == "" {
		return 0, nil
	}
	var total int64
	for _, suffix := range sqliteSidecars {
		info, err := os.Stat(dbPath + suffix)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return 0, err
		}
		if info.Mode().IsRegular() {
			total += info.Size()
		}
	}
	return total, nil
}

// DiskUsageBytes returns the size of the database files behind s.
func (s *SQLiteStorage) DiskUsageBytes() (int64, error) {
	return DatabaseFileBytes(s.path)
}
