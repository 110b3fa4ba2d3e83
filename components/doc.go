// Package components provides prefab payloads for sprites, transforms, UI
// nodes and tweens, along with the live donburi components they insert.
//
// Payloads decode from YAML and JSON with defaults for missing fields: font
// size 12, white tint for images and buttons, word line breaking, and unit
// transform scale. Payloads that reference assets hold [assets.Ref] fields
// and must be prepared against a world with an installed asset server before
// they are spawned; applying a payload whose references are still pending
// logs a warning and skips the affected component.
package components
