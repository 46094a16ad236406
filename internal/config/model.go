package config

// Model is a decoded configuration file. Nil pointers mean "not set".
type Model struct {
	Script      *string
	Number      *int
	BuiltinPath *string
	Entry       *string
	Suite       *string
	Cases       []string
	Format      *string
	Summary     *bool
	PublishURL  *string

	PublishNamespace *string
	PublishInsecure  *bool
	MaxCallStackSize *int
}
