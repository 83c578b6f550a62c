// Package environment names the deployment environment (development,
// staging, production) and carries it through request contexts so loggers
// can tag records with it.
package environment
