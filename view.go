package main

import "html/template"

var indexPage = template.Must(template.New("grid").Parse(`<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>{{.Name}}</title>
  <style nonce="{{.Nonce}}">
    :root{
      --bg:#0d1117; --panel:#111827; --border:#1f2937; --fg:#e5e7eb; --muted:#9ca3af; --accent:#22c55e;
    }
    *{ box-sizing:border-box }
    body{ margin:0; background:var(--bg); color:var(--fg); font-family:ui-sans-serif, system-ui, -apple-system, Segoe UI, Roboto, Helvetica, Arial }
    .wrap{ margin:0 auto; padding:20px; max-width:2160px; display:flex; flex-direction:column; gap:16px; min-height:100vh }
    .grid{ --cols:1; display:grid; grid-template-columns:repeat(var(--cols), minmax(0,1fr)); gap:12px; flex:1 }
    {{range .ColumnRange}}.cols-{{.}}{ --cols:{{.}} }
    {{end}}
    @media (min-width: 768px){
      {{range .ColumnRange}}.md-cols-{{.}}{ --cols:{{.}} }
      {{end}}
    }
    @media (min-width: 1024px){
      {{range .ColumnRange}}.lg-cols-{{.}}{ --cols:{{.}} }
      {{end}}
    }
    .cell{ position:relative; background:var(--panel); border:1px solid var(--border); border-radius:10px; overflow:hidden }
    .cell.pinned{ grid-column:1 / -1; border-color:var(--accent) }
    .screen{ width:100%; aspect-ratio:16/9; background:#000; display:flex; align-items:center; justify-content:center }
    .screen iframe, .screen > div{ width:100%; height:100% }
    .empty{ color:var(--muted); font-size:13px }
    .pin{ position:absolute; top:8px; right:8px; background:rgba(11,18,32,.8); border:1px solid var(--border); color:var(--fg); border-radius:6px; padding:4px 8px; cursor:pointer; font-size:12px }
    .pin:hover, .cell.pinned .pin{ border-color:var(--accent) }
    .panel{ background:var(--panel); border:1px solid var(--border); border-radius:10px; padding:14px; display:flex; flex-direction:column; gap:10px }
    .app-title{ font-weight:800; font-size:20px; margin:0 }
    .hint{ color:var(--muted); font-size:13px; margin:0 }
    textarea{ min-height:140px; border:1px solid var(--border); border-radius:8px; padding:10px 12px; background:#0b1220; color:var(--fg); font-family:ui-monospace, SFMono-Regular, Menlo, Consolas, monospace; font-size:13px; resize:vertical }
    .row{ display:flex; gap:12px; align-items:center; flex-wrap:wrap }
    .btn{ background:transparent; border:1px solid var(--border); border-radius:8px; padding:10px 12px; cursor:pointer; color:var(--fg); min-width:44px; min-height:38px }
    .btn:hover{ border-color:var(--accent); background:#0b1220 }
    .btn.primary{ border-color:var(--accent) }
    .cols{ margin-left:auto; display:flex; gap:8px; align-items:center; color:var(--muted); font-size:13px }
    .status{ color:var(--muted); font-size:12px }
  </style>
</head>
<body>
  <div class="wrap">
    <div id="grid" class="grid cols-1 md-cols-2 lg-cols-3"></div>
    <noscript>
      <div class="grid cols-1 md-cols-2 lg-cols-3">
        {{range .Embeds}}<div class="cell"><div class="screen">{{if .Src}}<iframe src="{{.Src}}" title="video {{.Index}}" allowfullscreen></iframe>{{else}}<span class="empty">Empty slot</span>{{end}}</div></div>
        {{end}}
      </div>
    </noscript>

    <div class="panel">
      <h1 class="app-title">{{.Name}}</h1>
      <p class="hint">Load up to 9 YouTube videos. Paste URLs below, one per line. Pin a video to feature it and hear its audio.</p>
      <textarea id="refs" spellcheck="false" placeholder="Paste YouTube URLs here (one per line)&#10;Example:&#10;https://www.youtube.com/watch?v=dQw4w9WgXcQ&#10;https://youtu.be/dQw4w9WgXcQ&#10;dQw4w9WgXcQ">{{.Input}}</textarea>
      <div class="row">
        <button id="load" class="btn primary">Load Videos</button>
        <button id="clear" class="btn">Clear</button>
        <label class="cols">Columns
          <input id="columns" type="range" min="{{.MinColumns}}" max="{{.MaxColumns}}" value="{{.Columns}}" />
          <span id="columns-value">{{.Columns}}</span>
        </label>
      </div>
      <div id="status" class="status">connecting…</div>
    </div>
  </div>

  <script nonce="{{.Nonce}}">
  (function(){
    const SLOTS = 9;
    const gridEl = document.getElementById('grid');
    const refsEl = document.getElementById('refs');
    const colsEl = document.getElementById('columns');
    const colsVal = document.getElementById('columns-value');
    const statusEl = document.getElementById('status');

    let ws = null;
    let outbox = [];
    let generation = 0;
    const players = {}; // slot -> {gen, player, ready, muted}
    const cells = [];

    for (let i = 0; i < SLOTS; i++) {
      const cell = document.createElement('div');
      cell.className = 'cell';
      cell.dataset.index = String(i);
      gridEl.appendChild(cell);
      cells.push(cell);
    }

    function send(msg){
      const data = JSON.stringify(msg);
      if (ws && ws.readyState === WebSocket.OPEN) { ws.send(data); } else { outbox.push(data); }
    }

    function wsURL(){
      const u = new URL('ws', location.href.replace(/[?#].*$/, '').replace(/([^\/])$/, '$1/'));
      u.protocol = location.protocol === 'https:' ? 'wss:' : 'ws:';
      return u.toString();
    }

    function connect(){
      ws = new WebSocket(wsURL());
      ws.onopen = () => {
        statusEl.textContent = 'connected';
        const pending = outbox; outbox = [];
        pending.forEach(d => ws.send(d));
      };
      ws.onclose = () => {
        statusEl.textContent = 'disconnected, reload to start a new session';
        Object.keys(players).forEach(destroyPlayer);
      };
      ws.onmessage = (ev) => {
        let m; try { m = JSON.parse(ev.data); } catch (_) { return; }
        if (m.type === 'state') render(m.state);
        else if (m.type === 'player') command(m.player);
        else if (m.type === 'log') statusEl.textContent = m.body;
      };
    }

    function mountCell(cell, index, videoId){
      cell.replaceChildren();
      const screen = document.createElement('div');
      screen.className = 'screen';
      if (videoId) {
        const mount = document.createElement('div');
        mount.id = 'player-' + generation + '-' + index;
        screen.appendChild(mount);
        const pin = document.createElement('button');
        pin.className = 'pin';
        pin.textContent = 'Pin';
        pin.addEventListener('click', () => send({type:'pin', index:index}));
        cell.appendChild(screen);
        cell.appendChild(pin);
      } else {
        const span = document.createElement('span');
        span.className = 'empty';
        span.textContent = 'Slot ' + (index + 1);
        screen.appendChild(span);
        cell.appendChild(screen);
      }
    }

    function render(st){
      gridEl.className = 'grid ' + st.layout.class;
      colsEl.value = String(st.columns);
      colsVal.textContent = String(st.columns);
      if (st.generation !== generation) {
        generation = st.generation;
        refsEl.value = st.input;
        const ids = {};
        st.items.forEach(it => { ids[it.index] = it.videoId || ''; });
        for (let i = 0; i < SLOTS; i++) mountCell(cells[i], i, ids[i]);
        for (let i = 0; i < SLOTS; i++) {
          if (ids[i]) send({type:'mounted', index:i, generation:generation});
        }
      }
      // reorder with CSS order so iframes are never reattached
      st.items.forEach((it, pos) => {
        const cell = cells[it.index];
        cell.style.order = String(pos);
        cell.classList.toggle('pinned', !!it.pinned);
        const pin = cell.querySelector('.pin');
        if (pin) pin.textContent = it.pinned ? 'Unpin' : 'Pin';
      });
      statusEl.textContent = st.loaded + ' of ' + SLOTS + ' slots loaded' + (st.pinned >= 0 ? ', slot ' + (st.pinned + 1) + ' pinned' : '');
    }

    function destroyPlayer(slot){
      const p = players[slot];
      if (!p) return;
      try { p.player.destroy(); } catch (_) {}
      delete players[slot];
    }

    function command(c){
      if (c.generation !== generation && c.op !== 'destroy') return;
      switch (c.op) {
      case 'create': {
        if (!document.getElementById(c.element) || !window.YT || !YT.Player) return;
        destroyPlayer(c.slot);
        const entry = {gen: c.generation, ready: false, muted: !!(c.playerVars && c.playerVars.mute)};
        entry.player = new YT.Player(c.element, {
          videoId: c.videoId,
          playerVars: c.playerVars || {},
          events: {
            onReady: (e) => {
              entry.ready = true;
              if (entry.muted) e.target.mute(); else e.target.unMute();
              e.target.playVideo();
            }
          }
        });
        players[c.slot] = entry;
        break;
      }
      case 'mute':
      case 'unmute': {
        const p = players[c.slot];
        if (!p || p.gen !== c.generation) return;
        p.muted = c.op === 'mute';
        if (p.ready) { if (p.muted) p.player.mute(); else p.player.unMute(); }
        break;
      }
      case 'destroy': {
        const p = players[c.slot];
        if (p && p.gen === c.generation) destroyPlayer(c.slot);
        break;
      }
      }
    }

    let inputTimer = null;
    refsEl.addEventListener('input', () => {
      clearTimeout(inputTimer);
      inputTimer = setTimeout(() => send({type:'input', text: refsEl.value}), 250);
    });
    document.getElementById('load').addEventListener('click', () => send({type:'load', text: refsEl.value}));
    document.getElementById('clear').addEventListener('click', () => send({type:'clear'}));
    colsEl.addEventListener('input', () => {
      colsVal.textContent = colsEl.value;
      send({type:'columns', columns: parseInt(colsEl.value, 10)});
    });

    window.onYouTubeIframeAPIReady = () => send({type:'api-ready'});
    connect();
    const tag = document.createElement('script');
    tag.src = 'https://www.youtube.com/iframe_api';
    tag.nonce = '{{.Nonce}}';
    document.head.appendChild(tag);
  })();
  </script>
</body>
</html>
`))
