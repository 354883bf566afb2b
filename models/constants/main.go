package constants

/*
	Defines a set of base level
	constants and enums to be used
	throughout the primer design
	service and its engine.
*/
type Severity string
type DesignStatus string
type DesignSource string
type ResponseStatus string
type JobState string
