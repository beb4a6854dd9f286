// Package config holds the tunable defaults of the learners and factories.
//
// Values come from three layers, later ones winning:
//
//  1. Default(), mirroring the DefaultOptions of each package;
//  2. an optional YAML file (Load with a non-empty path);
//  3. COPULANET_* environment variables, after an optional .env file has
//     been loaded into the environment (LoadEnv).
//
// Validate reports every out-of-range value wrapped in ErrInvalidConfig.
// The package only carries values; cmd/copulanet turns them into options.
package config
