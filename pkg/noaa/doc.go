// Package noaa implements queries to the NOAA CO-OPS datagetter API for tide
// predictions. Two products are used: the latest predicted water level, and a
// window of high/low extrema. Every query asks for GMT, so all times returned
// by this package are GMT wall clock readings (see timetricks.Civil).
package noaa
