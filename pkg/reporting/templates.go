/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: templates.go
Description: HTML template for the Akaylee Routes probe report. Single
self-contained page with status-colored result rows and the differential page
table up front.
*/

package reporting

// reportTemplate is the probe report page.
const reportTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Akaylee Routes Report</title>
<style>
body { font-family: sans-serif; margin: 2em; }
h1 { color: #333; }
table { border-collapse: collapse; margin-bottom: 2em; }
th, td { border: 1px solid #ccc; padding: 4px 8px; text-align: left; }
th { background: #eee; }
tr.ok { background: #dfd; }
tr.notfound { background: #f8f8f8; color: #888; }
tr.failed { background: #fdd; }
tr.other { background: #ffd; }
.meta { color: #666; font-size: 0.9em; }
</style>
</head>
<body>
<h1>Akaylee Routes Report</h1>
{{if .Summary}}
<p class="meta">
Run {{.Summary.RunID}}, generated {{.Summary.GeneratedAt.Format "2006-01-02 15:04:05"}}<br>
Origin: {{.Summary.BaseOrigin}} &middot; {{.Summary.Probed}} paths probed,
{{.Summary.ProbeFailures}} transport failures,
{{.Summary.UniquePages}} differential pages
</p>
{{end}}

<h2>Differential pages</h2>
<table>
<tr><th>URL</th><th>Status</th><th>Length (bytes)</th><th>Response time (s)</th></tr>
{{range .UniquePages}}
<tr class="{{rowClass .}}"><td>{{.URL}}</td><td>{{.StatusCode}}</td><td>{{.ContentLength}}</td><td>{{printf "%.3f" .ResponseTime}}</td></tr>
{{end}}
</table>

<h2>All results</h2>
<table>
<tr><th>URL</th><th>Status</th><th>Length (bytes)</th><th>Response time (s)</th><th>Error</th></tr>
{{range .Results}}
<tr class="{{rowClass .}}"><td>{{.URL}}</td><td>{{.StatusCode}}</td><td>{{.ContentLength}}</td><td>{{printf "%.3f" .ResponseTime}}</td><td>{{.Error}}</td></tr>
{{end}}
</table>
</body>
</html>`
