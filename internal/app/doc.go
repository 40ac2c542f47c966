// Package app wires one pipeline run: configuration, paths, logging,
// telemetry and the step manager for the requested command.
//
// # Initialization Flow
//
//	1. Load configuration from defaults, YAML, .env and the environment
//	2. Overlay command-line flags and validate again
//	3. Resolve every path against the base directory
//	4. Initialize logging and telemetry
//	5. Build the prepare or analyze manager and execute it
//
// # Usage
//
//	application, err := app.NewApplication(app.Options{ConfigFile: *configFile})
//	if err != nil {
//	    os.Exit(1)
//	}
//	defer application.Stop(context.Background())
//	_, err = application.Run(ctx, operations.CommandPrepare)
//
// # Error Handling
//
// All initialization errors are returned to the caller. The app does not
// call os.Exit() directly, allowing the main function to control the exit
// process.
package app
