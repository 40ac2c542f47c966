// Package config loads and validates the pipeline configuration.
//
// # Configuration Sources
//
// Configuration is assembled from the following sources, later ones winning:
//
//	1. Default() values
//	2. YAML file (acidentes.yaml, config.yaml, configs/config.yaml or -config)
//	3. .env file in the working directory
//	4. Environment variables prefixed with ACIDENTES_
//	5. Command-line flags applied by each executable
//
// # Environment Variables
//
//	ACIDENTES_INPUT_DIRS=data/raw
//	ACIDENTES_INPUT_YEARS=2024,2025
//	ACIDENTES_INPUT_READER=dataframe
//	ACIDENTES_SNAPSHOT_CODEC=zstd
//	ACIDENTES_OUTPUT_SAMPLE_CAP=4000
//	ACIDENTES_LOGGING_LEVEL=debug
//
// # Paths
//
// Relative locations are resolved against the working directory by GetPaths,
// which is the single place where file names are turned into absolute paths.
package config
