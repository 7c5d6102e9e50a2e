package domain

// Closed value vocabularies. Entities decode these as plain strings and the
// validator checks membership, so an out-of-vocabulary value loads fine and
// surfaces as a validation finding rather than a decode failure.

// SchemaType is the serialization dialect of a schema body.
type SchemaType string

const (
	SchemaTypeAvro     SchemaType = "avro"
	SchemaTypeBigQuery SchemaType = "bigquery"
)

var SchemaTypes = []SchemaType{SchemaTypeAvro, SchemaTypeBigQuery}

func (t SchemaType) Valid() bool {
	return t == SchemaTypeAvro || t == SchemaTypeBigQuery
}

// SystemType locates a system relative to the platform.
type SystemType string

const (
	SystemTypeExternal SystemType = "external"
	SystemTypeInternal SystemType = "internal"
	SystemTypePlatform SystemType = "platform"
)

var SystemTypes = []SystemType{SystemTypeExternal, SystemTypeInternal, SystemTypePlatform}

func (t SystemType) Valid() bool {
	return t == SystemTypeExternal || t == SystemTypeInternal || t == SystemTypePlatform
}

// DataEntityType distinguishes raw sources from managed datasets.
type DataEntityType string

const (
	DataEntityTypeDatasource DataEntityType = "datasource"
	DataEntityTypeDataset    DataEntityType = "dataset"
)

var DataEntityTypes = []DataEntityType{DataEntityTypeDatasource, DataEntityTypeDataset}

func (t DataEntityType) Valid() bool {
	return t == DataEntityTypeDatasource || t == DataEntityTypeDataset
}

// InterfaceType is the access mechanism of a data entity.
type InterfaceType string

const (
	InterfaceAPIRest            InterfaceType = "api_rest"
	InterfaceAPIGraphQL         InterfaceType = "api_graphql"
	InterfaceSQL                InterfaceType = "sql"
	InterfaceGoogleCloudStorage InterfaceType = "google_cloud_storage"
)

var InterfaceTypes = []InterfaceType{
	InterfaceAPIRest,
	InterfaceAPIGraphQL,
	InterfaceSQL,
	InterfaceGoogleCloudStorage,
}

func (t InterfaceType) Valid() bool {
	switch t {
	case InterfaceAPIRest, InterfaceAPIGraphQL, InterfaceSQL, InterfaceGoogleCloudStorage:
		return true
	}
	return false
}

// PipelineScope says whether a pipeline carries one instance or many.
type PipelineScope string

const (
	PipelineScopeSingle   PipelineScope = "single"
	PipelineScopeCompound PipelineScope = "compound"
)

var PipelineScopes = []PipelineScope{PipelineScopeSingle, PipelineScopeCompound}

func (s PipelineScope) Valid() bool {
	return s == PipelineScopeSingle || s == PipelineScopeCompound
}

// PipelineType is the pipeline's role in the platform.
type PipelineType string

const (
	PipelineTypeIngest    PipelineType = "ingest"
	PipelineTypeTransform PipelineType = "transform"
	PipelineTypeDelivery  PipelineType = "delivery"
)

var PipelineTypes = []PipelineType{PipelineTypeIngest, PipelineTypeTransform, PipelineTypeDelivery}

func (t PipelineType) Valid() bool {
	return t == PipelineTypeIngest || t == PipelineTypeTransform || t == PipelineTypeDelivery
}

// Velocity is the processing cadence of a pipeline.
type Velocity string

const (
	VelocityBatch     Velocity = "batch"
	VelocityStreaming Velocity = "streaming"
)

var Velocities = []Velocity{VelocityBatch, VelocityStreaming}

func (v Velocity) Valid() bool {
	return v == VelocityBatch || v == VelocityStreaming
}
