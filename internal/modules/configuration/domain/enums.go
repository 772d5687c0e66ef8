//go:generate go run github.com/abice/go-enum --file=$GOFILE --names --nocase

package domain

// ResolutionOutcome represents the result of a configuration refresh
// ENUM(loaded,invalid,no_candidates)
type ResolutionOutcome string

// AppEnv represents the application environment
// ENUM(local,production,development,testing)
type AppEnv string
