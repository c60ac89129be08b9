// Package docs provides generated OpenAPI documentation.
//
// Assessor API
//
//	@title			Assessor API
//	@version		1.0
//	@description	Recommends catalog assessments for a job description or free-text query using an LLM.
//
//	@contact.name	API Support
//	@contact.url	https://github.com/jackzampolin/assessor
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host		localhost:8000
//	@BasePath	/
//
//	@schemes	http https
package docs

//go:generate swag init -g ../cmd/assessor/serve.go -o ./swagger --parseDependency --parseInternal
