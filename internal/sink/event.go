// Package sink persists scene summary frames into a run log directory:
// a binary event record stream, material textures as lossless WebP
// files, and a yaml manifest indexing the run.
package sink

// Event file layout (little-endian):
//
//	magic "S3DL", u16 version
//	per record:
//	  track  u16 length + bytes
//	  step   u32
//	  cap    u32 (MaxOutputs, 0 = uncapped)
//	  nfield u8
//	  per field:
//	    id    u8
//	    flags u8 (bit0: reuse marker, no payload follows)
//	    tensor fields: u32 batch, u32 count, payload
//	    material field: name, scalar/vector properties, texture refs
const (
	magic   = "S3DL"
	version = uint16(1)

	fieldPositions = uint8(1)
	fieldNormals   = uint8(2)
	fieldColors    = uint8(3)
	fieldIndices   = uint8(4)
	fieldUVs       = uint8(5)
	fieldMaterial  = uint8(6)

	flagReuse = uint8(1 << 0)
)

// EventFileName is the record stream file inside a run directory.
const EventFileName = "events.s3d"

// ManifestFileName is the yaml index written on Close.
const ManifestFileName = "manifest.yaml"

// Manifest indexes one run: which (track, step) records exist, where
// they start in the event file, and which texture files they reference.
type Manifest struct {
	Run     string         `yaml:"run"`
	Version uint16         `yaml:"version"`
	Records []RecordEntry  `yaml:"records"`
	Tracks  map[string]int `yaml:"tracks"` // track name -> record count
}

// RecordEntry is one frame in the manifest.
type RecordEntry struct {
	Track    string   `yaml:"track"`
	Step     int      `yaml:"step"`
	Offset   int64    `yaml:"offset"`
	Batch    int      `yaml:"batch"`
	Textures []string `yaml:"textures,omitempty"`
}
