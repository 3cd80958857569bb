// Package datatypes holds example tables for testing data-type checks and
// conversions between machine representations of the Table scitype.
//
// An example is registered under a key (mtype, scitype, index). All mtypes
// registered at the same (scitype, index) hold the same table, so a check or
// conversion can be verified by comparing against the registered fixture.
// Each example also carries a lossy flag: whether its mtype drops
// information, such as column names, when holding the table. A
// representation that cannot hold a table at all is registered with the
// absence marker.
//
// # Quick Start
//
//	import (
//	    "github.com/ajitpratap0/datatypes/pkg/table/convert"
//	    "github.com/ajitpratap0/datatypes/pkg/table/examples"
//	    "github.com/ajitpratap0/datatypes/pkg/table/mtype"
//	)
//
//	key := examples.Key{MType: mtype.Numpy2D, SciType: mtype.SciTypeTable, Index: 1}
//	obj, err := examples.Lookup(key)
//	frame, err := convert.Convert(obj, mtype.Numpy2D, mtype.PandasDataFrame)
//
// # Key Packages
//
//	pkg/table          - Frame, Matrix and Vector representations
//	pkg/table/mtype    - mtype and scitype register
//	pkg/table/examples - fixture registry and lossy flags
//	pkg/table/check    - mtype checks and table metadata
//	pkg/table/convert  - conversions between mtypes
//	pkg/harness        - concurrent verification of every fixture
//	pkg/formats        - Parquet, Arrow IPC, Avro, CSV and JSON files
//	pkg/exporter       - fixture export with manifests
//	pkg/sink           - local, S3 and GCS destinations
//	pkg/config         - YAML and environment configuration
//	pkg/errors         - structured error handling
//	pkg/logger         - structured logging
//	pkg/metrics        - Prometheus metrics
//
// # Command Line
//
// The datatypes command lists, checks, converts and exports the fixtures:
//
//	datatypes list
//	datatypes convert numpy2D pd_DataFrame_Table 1 -o json
//	datatypes verify --workers 8
//	datatypes export --dest s3://bucket/fixtures --format parquet
//
// # Configuration
//
// Configuration is read from YAML and DATATYPES_* environment variables,
// with ${VAR_NAME} substitution in the file:
//
//	harness:
//	  workers: 8
//	export:
//	  destination: gs://bucket/fixtures
//	  format: arrow
//	  compression: zstd
package datatypes
