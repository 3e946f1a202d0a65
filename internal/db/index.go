package db

// StorageType defines the document storage backend for FT indexes.
type StorageType string

const (
	// StorageHash stores documents as Redis hashes.
	StorageHash StorageType = "HASH"
)

// DistanceMetric used by FT.SEARCH vector similarity queries.
type DistanceMetric string

const (
	// DistanceL2 is Euclidean distance.
	DistanceL2 DistanceMetric = "L2"
	// DistanceCosine is cosine distance.
	DistanceCosine DistanceMetric = "COSINE"
)

// VectorAlgo selects the vector index algorithm.
type VectorAlgo string

const (
	// VectorFlat is brute-force exact search.
	VectorFlat VectorAlgo = "FLAT"
	// VectorHNSW is the approximate HNSW graph index.
	VectorHNSW VectorAlgo = "HNSW"
)

// IndexFieldType is the FT schema field type.
type IndexFieldType string

const (
	// IndexFieldTag is an exact-match tag field.
	IndexFieldTag IndexFieldType = "TAG"
	// IndexFieldVector is a KNN-searchable vector field.
	IndexFieldVector IndexFieldType = "VECTOR"
)

// IndexField describes a single FT schema field.
type IndexField struct {
	Name              string
	Type              IndexFieldType
	VectorDim         int
	VectorAlgo        VectorAlgo
	VectorDistance    DistanceMetric
	VectorM           int
	VectorEFConstruct int
}

// IndexDefinition describes an FT index to create.
type IndexDefinition struct {
	Name        string
	StorageType StorageType
	Prefixes    []string
	Fields      []IndexField
}
