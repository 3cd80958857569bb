// Package config loads and validates the datatypes configuration.
//
// # Loading
//
//	cfg, err := config.Load("datatypes.yaml")
//
// Load starts from NewConfig's defaults, merges the YAML file and applies
// environment overrides named DATATYPES_<SECTION>_<KEY>, for example
// DATATYPES_HARNESS_WORKERS=8 or DATATYPES_EXPORT_DESTINATION=s3://bucket/run.
//
// # Environment Variable Substitution
//
//	# datatypes.yaml
//	export:
//	  destination: gs://${FIXTURE_BUCKET}/tables
//	  sink:
//	    credentials_file: ${GOOGLE_APPLICATION_CREDENTIALS}
//
// # Writing a Starting Point
//
//	err := config.Save("datatypes.yaml", config.NewConfig())
package config
