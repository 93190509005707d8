package api

import (
	"net/http"
)

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(pageHTML))
}

const pageHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>QR Code Generator</title>
<style>
  * { margin: 0; padding: 0; box-sizing: border-box; }
  body {
    font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
    background: #f4f4f5;
    color: #18181b;
    display: flex;
    justify-content: center;
    align-items: center;
    min-height: 100vh;
  }
  .card {
    background: #fff;
    border: 1px solid #e4e4e7;
    border-radius: 16px;
    padding: 40px;
    max-width: 480px;
    width: 100%;
  }
  h1 { font-size: 20px; font-weight: 600; margin-bottom: 24px; text-align: center; }
  label { display: block; font-size: 13px; color: #52525b; margin: 12px 0 4px; }
  textarea, select, input {
    width: 100%;
    padding: 8px;
    border: 1px solid #d4d4d8;
    border-radius: 8px;
    font-size: 14px;
  }
  .row { display: flex; gap: 12px; }
  .row > div { flex: 1; }
  button {
    margin-top: 20px;
    width: 100%;
    padding: 10px;
    border: 0;
    border-radius: 8px;
    background: #18181b;
    color: #fff;
    font-size: 14px;
    cursor: pointer;
  }
  #result { margin-top: 24px; text-align: center; }
  #result img { max-width: 100%; image-rendering: pixelated; }
  #error { color: #dc2626; font-size: 13px; margin-top: 12px; text-align: center; }
  #meta { color: #71717a; font-size: 12px; margin-top: 8px; }
</style>
</head>
<body>
<div class="card">
  <h1>QR Code Generator</h1>
  <form id="form">
    <label for="text">Text</label>
    <textarea id="text" rows="3" placeholder="https://example.com"></textarea>
    <div class="row">
      <div>
        <label for="level">Error correction</label>
        <select id="level">
          <option value="L">L (7%)</option>
          <option value="M" selected>M (15%)</option>
          <option value="Q">Q (25%)</option>
          <option value="H">H (30%)</option>
        </select>
      </div>
      <div>
        <label for="box_size">Box size</label>
        <input id="box_size" type="number" min="1" max="100" value="10">
      </div>
      <div>
        <label for="border">Border</label>
        <input id="border" type="number" min="0" value="4">
      </div>
    </div>
    <button type="submit">Generate</button>
  </form>
  <div id="error"></div>
  <div id="result"></div>
</div>
<script>
(function() {
  var form = document.getElementById('form');
  var result = document.getElementById('result');
  var errorEl = document.getElementById('error');

  function clearChildren(el) {
    while (el.firstChild) el.removeChild(el.firstChild);
  }

  form.addEventListener('submit', function(ev) {
    ev.preventDefault();
    errorEl.textContent = '';
    var body = {
      text: document.getElementById('text').value,
      level: document.getElementById('level').value,
      box_size: parseInt(document.getElementById('box_size').value, 10),
      border: parseInt(document.getElementById('border').value, 10)
    };
    fetch('/qr/data', {
      method: 'POST',
      headers: { 'Content-Type': 'application/json' },
      body: JSON.stringify(body)
    })
      .then(function(r) { return r.json(); })
      .then(function(data) {
        clearChildren(result);
        if (data.error) {
          errorEl.textContent = data.error;
          return;
        }
        var img = document.createElement('img');
        img.setAttribute('alt', 'QR Code');
        img.setAttribute('src', data.data_uri);
        var link = document.createElement('a');
        link.setAttribute('href', data.data_uri);
        link.setAttribute('download', 'qrcode.' + data.format);
        link.appendChild(img);
        result.appendChild(link);
        var meta = document.createElement('div');
        meta.id = 'meta';
        meta.textContent = data.width + ' x ' + data.height + ' px, version ' + data.version;
        result.appendChild(meta);
      })
      .catch(function() {
        errorEl.textContent = 'Request failed, try again.';
      });
  });
})();
</script>
</body>
</html>`
