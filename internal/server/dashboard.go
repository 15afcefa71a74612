package server

// DashboardHTML is the embedded single-page dashboard for Cadence.
// It connects via WebSocket and displays the clock chain in real time.
const DashboardHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Cadence Dashboard</title>
<style>
  * { margin: 0; padding: 0; box-sizing: border-box; }
  body {
    font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, monospace;
    background: #0d1117; color: #c9d1d9; padding: 20px;
  }
  h1 { color: #58a6ff; margin-bottom: 4px; font-size: 1.5em; }
  .subtitle { color: #8b949e; margin-bottom: 20px; font-size: 0.9em; }
  .status-bar {
    display: flex; gap: 20px; margin-bottom: 20px; padding: 12px 16px;
    background: #161b22; border: 1px solid #30363d; border-radius: 6px;
  }
  .status-item { display: flex; flex-direction: column; }
  .status-label { font-size: 0.75em; color: #8b949e; text-transform: uppercase; }
  .status-value { font-size: 1.1em; font-weight: 600; }
  .status-value.connected { color: #3fb950; }
  .status-value.disconnected { color: #f85149; }
  .status-value.running { color: #3fb950; }
  .status-value.paused { color: #d29922; }
  .status-value.stopped { color: #f85149; }
  .time-display {
    background: #161b22; border: 1px solid #30363d; border-radius: 6px;
    padding: 24px; text-align: center; margin-bottom: 20px;
  }
  .time-big { font-size: 3em; font-weight: 700; color: #58a6ff; font-variant-numeric: tabular-nums; }
  .time-label { font-size: 0.8em; color: #8b949e; margin-top: 4px; }
  .stats {
    display: grid; grid-template-columns: repeat(auto-fit, minmax(150px, 1fr));
    gap: 12px; margin-bottom: 20px;
  }
  .stat-card {
    background: #161b22; border: 1px solid #30363d; border-radius: 6px;
    padding: 16px; text-align: center;
  }
  .stat-number { font-size: 1.6em; font-weight: 700; color: #d2a8ff; font-variant-numeric: tabular-nums; }
  .stat-label { font-size: 0.8em; color: #8b949e; margin-top: 4px; }
  .controls { display: flex; gap: 8px; flex-wrap: wrap; }
  .controls button {
    background: #21262d; color: #c9d1d9; border: 1px solid #30363d;
    padding: 8px 16px; border-radius: 6px; cursor: pointer; font-size: 0.9em;
  }
  .controls button:hover { background: #30363d; }
  .controls input {
    background: #0d1117; color: #c9d1d9; border: 1px solid #30363d;
    padding: 8px; border-radius: 6px; width: 110px;
  }
</style>
</head>
<body>
<h1>Cadence Dashboard</h1>
<p class="subtitle">Live view of the gameplay clock chain</p>

<div class="status-bar">
  <div class="status-item">
    <span class="status-label">Connection</span>
    <span class="status-value disconnected" id="conn-status">Disconnected</span>
  </div>
  <div class="status-item">
    <span class="status-label">State</span>
    <span class="status-value" id="state">—</span>
  </div>
  <div class="status-item">
    <span class="status-label">Frames/sec</span>
    <span class="status-value" id="fps">0</span>
  </div>
</div>

<div class="time-display">
  <div class="time-big" id="current-time">0.0</div>
  <div class="time-label">gameplay time (ms)</div>
</div>

<div class="stats">
  <div class="stat-card">
    <div class="stat-number" id="raw-time">0.0</div>
    <div class="stat-label">Raw Time (ms)</div>
  </div>
  <div class="stat-card">
    <div class="stat-number" id="rate">1.00x</div>
    <div class="stat-label">Rate</div>
  </div>
  <div class="stat-card">
    <div class="stat-number" id="platform-offset">0</div>
    <div class="stat-label">Platform Offset (ms)</div>
  </div>
  <div class="stat-card">
    <div class="stat-number" id="user-offset">0</div>
    <div class="stat-label">User Offset (ms)</div>
  </div>
  <div class="stat-card">
    <div class="stat-number" id="frame-delta">0.0</div>
    <div class="stat-label">Frame Delta (ms)</div>
  </div>
</div>

<div class="controls">
  <button onclick="post('/api/pause')">Pause</button>
  <button onclick="post('/api/resume')">Resume</button>
  <button onclick="post('/api/restart')">Restart</button>
  <input type="number" id="seek-to" placeholder="seek to (ms)">
  <button onclick="seek()">Seek</button>
  <input type="number" id="rate-value" placeholder="rate" step="0.1" min="0.5" max="2.0">
  <button onclick="setRate()">Set Rate</button>
</div>

<script>
let frameTimestamps = [];

function connect() {
  const proto = location.protocol === 'https:' ? 'wss:' : 'ws:';
  const ws = new WebSocket(proto + '//' + location.host + '/ws');

  ws.onopen = () => {
    document.getElementById('conn-status').textContent = 'Connected';
    document.getElementById('conn-status').className = 'status-value connected';
  };

  ws.onclose = () => {
    document.getElementById('conn-status').textContent = 'Disconnected';
    document.getElementById('conn-status').className = 'status-value disconnected';
    setTimeout(connect, 2000);
  };

  ws.onmessage = (e) => {
    update(JSON.parse(e.data));
  };
}

function update(snap) {
  const now = Date.now();
  frameTimestamps.push(now);
  frameTimestamps = frameTimestamps.filter(t => now - t < 1000);

  document.getElementById('current-time').textContent = snap.current_time.toFixed(1);
  document.getElementById('raw-time').textContent = snap.raw_time.toFixed(1);
  document.getElementById('rate').textContent = snap.rate.toFixed(2) + 'x';
  document.getElementById('platform-offset').textContent = snap.platform_offset;
  document.getElementById('user-offset').textContent = snap.user_offset;
  document.getElementById('frame-delta').textContent = snap.elapsed_frame_time.toFixed(1);
  document.getElementById('fps').textContent = frameTimestamps.length;

  const state = document.getElementById('state');
  state.textContent = snap.state;
  state.className = 'status-value ' + snap.state.toLowerCase();
}

function post(path) {
  fetch(path, {method: 'POST'});
}

function seek() {
  const to = document.getElementById('seek-to').value;
  if (to !== '') fetch('/api/seek?to=' + to, {method: 'POST'});
}

function setRate() {
  const v = document.getElementById('rate-value').value;
  if (v !== '') fetch('/api/rate?value=' + v, {method: 'POST'});
}

connect();
</script>
</body>
</html>`
