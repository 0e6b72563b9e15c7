// Package leadqualificationservice stores sales leads, classifies their quality
// at ingestion, records user interaction events and reports analytics over both.
//
// Layout:
//   - domain: entities, the quality classifier and the pure analytics engine
//   - ports: repository, clock, id and publisher interfaces
//   - application: ingestion, seeding, event recording and report use cases
//   - adapters: memory and gorm stores, the OpenAI augmenter, CSV seed
//     reader, console printer and the HTTP handler
package leadqualificationservice
