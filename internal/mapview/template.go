package mapview

import "html/template"

var mapTemplate = template.Must(template.New("map").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css"/>
<script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
<script src="https://unpkg.com/leaflet.heat@0.2.0/dist/leaflet-heat.js"></script>
<style>html, body, #map { height: 100%; margin: 0; }</style>
</head>
<body>
<div id="map"></div>
<script>
var map = L.map('map').setView([{{.CenterLat}}, {{.CenterLon}}], {{.Zoom}});
L.tileLayer('https://{s}.basemaps.cartocdn.com/light_all/{z}/{x}/{y}{r}.png', {
	attribution: '&copy; OpenStreetMap contributors &copy; CARTO',
	maxZoom: 20
}).addTo(map);
var overlays = {};
{{range .Layers}}
(function() {
	var layer = L.featureGroup();
{{if .Heat}}
	L.heatLayer({{.Points}}, {minOpacity: 0.3, radius: 25, blur: 18}).addTo(layer);
{{else}}
	var points = {{.Points}};
	points.forEach(function(p) {
		L.circleMarker([p.lat, p.lon], {
			radius: 4,
			color: p.color,
			fill: true,
			fillOpacity: {{.FillOpacity}}
		}).bindPopup(p.popup).addTo(layer);
	});
{{end}}
	layer.addTo(map);
	overlays[{{.Name}}] = layer;
})();
{{end}}
L.control.layers(null, overlays, {collapsed: false}).addTo(map);
</script>
</body>
</html>
`))
