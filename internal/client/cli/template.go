package cli

const helpText = `
=== Commands ===

  names               list saved sender names
  endpoints           list saved endpoints
  name <text|N>       confirm a sender name, or pick saved name N
  endpoint <text|N>   confirm "note - address", or pick saved endpoint N
  target <address>    send to an address without saving it first
  send <message>      send the message to the current endpoint
  status              show current selection
  help                show this help
  quit                exit
`

const statusTemplate = `
=== Status ===

User:     {{.User}}
Name:     {{if .Name}}{{.Name}}{{else}}(not set){{end}}
Endpoint: {{if .Target}}{{.Target}}{{else}}(not set){{end}}
Send:     {{.State}}
{{- if .Last}}
Last:     {{.Last}}
{{- end}}
`
