// Package pipeline connects a discovery source to the output template.
//
// A run moves through Querying (starting discovery), Streaming (waiting
// for the next device) and Rendering (writing one line), and ends in Done
// or Aborted. Devices are handled one at a time in arrival order; each
// line is written before the next device is requested. The first render
// or discovery error ends the run, lines already written stay written.
package pipeline
