package demosite

import "html/template"

const layoutHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>The Internet</title>
<style>
body { font-family: sans-serif; margin: 0; }
header { display: flex; align-items: center; justify-content: space-between; padding: 8px 16px; background: #eee; }
.menu-toggle { display: none; }
@media (max-width: 600px) { .menu-toggle { display: block; } }
#content { padding: 16px; }
.flash { padding: 8px; margin-bottom: 12px; }
.flash.success { background: #5da423; color: #fff; }
.flash.error { background: #c60f13; color: #fff; }
footer { padding: 8px 16px; border-top: 1px solid #ccc; }
</style>
</head>
<body>
<header>
  <a class="brand" href="/">the-internet</a>
  <button class="menu-toggle" type="button" aria-label="Menu">&#9776;</button>
</header>
<div class="row">
  <div id="flash-messages" class="large-12 columns">
  {{- with .Flash}}
    <div id="flash" class="flash {{.Kind}}">{{.Text}}<a href="#" class="close">&times;</a></div>
  {{- end}}
  </div>
</div>
<div id="content" class="large-12 columns">
{{template "content" .}}
</div>
<footer>
  <div id="page-footer">Powered by Elemental Selenium</div>
</footer>
</body>
</html>`

var pageHTML = map[string]string{
	"home": `{{define "content"}}
<h1 class="heading">Welcome to the-internet</h1>
<h2>Available Examples</h2>
<ul>
  <li><a href="/broken_images">Broken Images</a></li>
  <li><a href="/captcha">Captcha</a></li>
  <li><a href="/checkboxes">Checkboxes</a></li>
  <li><a href="/dropdown">Dropdown</a></li>
  <li><a href="/dynamic_content">Dynamic Content</a></li>
  <li><a href="/dynamic_controls">Dynamic Controls</a></li>
  <li><a href="/entry_ad">Entry Ad</a></li>
  <li><a href="/download">File Download</a></li>
  <li><a href="/upload">File Upload</a></li>
  <li><a href="/login">Form Authentication</a></li>
</ul>
{{end}}`,

	"login": `{{define "content"}}
<div class="example">
  <h2>Login Page</h2>
  <h4 class="subheader">Use tomsmith for the username and SuperSecretPassword! for the password.</h4>
  <form name="login" id="login" action="/authenticate" method="post">
    <label for="username">Username</label>
    <input type="text" name="username" id="username">
    <label for="password">Password</label>
    <input type="password" name="password" id="password">
    <button class="radius" type="submit"><i class="fa fa-2x fa-sign-in">Login</i></button>
  </form>
</div>
{{end}}`,

	"secure": `{{define "content"}}
<div class="example">
  <h2><i class="icon-lock"></i> Secure Area</h2>
  <h4 class="subheader">Welcome to the Secure Area. When you are done click logout below.</h4>
  <a class="button secondary radius" href="/logout"><i class="icon-2x icon-signout">Logout</i></a>
</div>
{{end}}`,

	"checkboxes": `{{define "content"}}
<div class="example">
  <h3>Checkboxes</h3>
  <form id="checkboxes">
    <input type="checkbox"> checkbox 1<br>
    <input type="checkbox" checked> checkbox 2
  </form>
</div>
{{end}}`,

	"broken_images": `{{define "content"}}
<div class="example">
  <h3>Broken Images</h3>
  <img src="/asdf.jpg" alt="">
  <img src="/hjkl.jpg" alt="">
</div>
{{end}}`,

	"dropdown": `{{define "content"}}
<div class="example">
  <h3>Dropdown List</h3>
  <select id="dropdown">
    <option value="" disabled selected>Please select an option</option>
    <option value="1">Option 1</option>
    <option value="2">Option 2</option>
  </select>
</div>
{{end}}`,

	"dynamic_content": `{{define "content"}}
<div class="example">
  <h3>Dynamic Content</h3>
  <p>This example demonstrates the ever-evolving nature of content by loading new text on each page refresh.</p>
  {{range .Rows}}<div class="row"><div class="large-10 columns">{{.}}</div></div>
  {{end}}
</div>
{{end}}`,

	"dynamic_controls": `{{define "content"}}
<div class="example">
  <h4>Dynamic Controls</h4>
  <form id="input-example">
    <input id="text-input" type="text" disabled>
    <button id="enable" type="button" onclick="document.getElementById('text-input').disabled = false">Enable</button>
  </form>
</div>
{{end}}`,

	"entry_ad": `{{define "content"}}
<div class="example">
  <h3>Entry Ad</h3>
  <p>If you close the modal, it will not appear on subsequent page loads.</p>
  <a id="restart-ad" href="#">click here</a>
</div>
<div id="modal" class="modal" style="position: fixed; top: 0; left: 0; width: 100%; height: 100%; background: rgba(0, 0, 0, 0.6); z-index: 10;">
  <div class="modal-title"><h3>This is a modal window</h3></div>
  <div class="modal-footer"><p>Close</p></div>
</div>
{{end}}`,

	"upload": `{{define "content"}}
<div class="example">
  <h3>File Uploader</h3>
  <p>Choose a file on your system and then click upload.</p>
  <form method="POST" enctype="multipart/form-data" action="/upload">
    <input id="file-upload" type="file" name="file">
    <input id="file-submit" class="button" type="submit" value="Upload">
  </form>
</div>
{{end}}`,

	"uploaded": `{{define "content"}}
<div class="example">
  <h3>File Uploaded!</h3>
  <div id="uploaded-files" class="panel text-center">{{.Uploaded}}</div>
</div>
{{end}}`,

	"download": `{{define "content"}}
<div class="example">
  <h3>File Downloader</h3>
  {{range .Files}}<a href="download/{{.}}">{{.}}</a><br>
  {{end}}
</div>
{{end}}`,

	"captcha": `{{define "content"}}
<div class="example">
  <h3>Captcha</h3>
  <form id="captcha-form" action="/captcha" method="post">
    <label for="username">Username</label>
    <input type="text" name="username" id="username">
    <label for="password">Password</label>
    <input type="password" name="password" id="password">
    <label for="captcha">Type the characters <span id="captcha-challenge">{{.Challenge}}</span></label>
    <input type="text" name="captcha" id="captcha">
    <button id="submit-btn" type="submit">Submit</button>
  </form>
</div>
{{end}}`,

	"not_found": `{{define "content"}}
<h1>Not Found</h1>
<p>The requested URL was not found on this server.</p>
{{end}}`,
}

// page data shared by every template
type view struct {
	Flash     *flash
	Rows      []string
	Uploaded  string
	Files     []string
	Challenge string
}

func parsePages() map[string]*template.Template {
	base := template.Must(template.New("layout").Parse(layoutHTML))
	pages := make(map[string]*template.Template, len(pageHTML))
	for name, body := range pageHTML {
		pages[name] = template.Must(template.Must(base.Clone()).Parse(body))
	}
	return pages
}
