package badger

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/poiesic/newsflow/core"
)

// Key prefixes for different data types
const (
	archiveRecordPrefix = "arcrec"
	archiveDatePrefix   = "arcrecd"
	checkpointPrefix    = "chkpt"
	vectorPrefix        = "vec"
)

// makeArchiveKey generates a key for an archived payload by ID.
func makeArchiveKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", archiveRecordPrefix, id))
}

// makeArchiveDateKey generates a composite key for the date index.
// Format: prefix:timestamp:id
func makeArchiveDateKey(timestamp time.Time, id core.ID) []byte {
	buf := makePartialArchiveDateKey(timestamp)
	// Write in BigEndian order so lexicographic sort works correctly
	return binary.BigEndian.AppendUint64(buf, uint64(id))
}

// makePartialArchiveDateKey generates a partial key for date range queries.
// Format: prefix:timestamp
func makePartialArchiveDateKey(timestamp time.Time) []byte {
	prefix := archiveDatePrefix + ":"
	buf := make([]byte, 0, len(prefix)+16)
	buf = append(buf, prefix...)
	// Pre-epoch timestamps are not supported; they sort before the epoch as 0.
	micros := timestamp.UnixMicro()
	if micros < 0 {
		micros = 0
	}
	return binary.BigEndian.AppendUint64(buf, uint64(micros))
}

// archiveDateIndexPrefix returns the prefix shared by all date index keys.
func archiveDateIndexPrefix() []byte {
	return []byte(archiveDatePrefix + ":")
}

// makeCheckpointKey generates a key for pipeline checkpoints.
func makeCheckpointKey(pipeline string) []byte {
	return []byte(fmt.Sprintf("%s:%s", checkpointPrefix, pipeline))
}

func makeVectorKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", vectorPrefix, id))
}
