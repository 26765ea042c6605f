// Package httpapi implements the HTTP/JSON search surface: GET / and GET
// /openapi.json are unauthenticated; POST /search/ripgrep and POST
// /search/embedding require a Bearer token matching the configured
// apiKey; CORS is permissive; unknown paths 404, wrong methods 405,
// malformed request bodies 500. No HTTP router or framework is
// available, so this is built directly on net/http with a hand-rolled
// route table (see DESIGN.md).
package httpapi
