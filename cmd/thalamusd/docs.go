package main

// General API documentation for swaggo. Regenerate docs/ with
// `swag init -g cmd/thalamusd/docs.go --parseInternal`.
//
// @title           thalamusd API
// @version         1.0
// @description     HTTP API for versioned model serving, weight caching and device placement.
//
// @contact.name   thalamusd maintainers
// @contact.url    https://github.com/your-org/thalamusd
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
