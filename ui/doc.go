// Package ui describes user interfaces as widget trees and flattens them into
// prefabs of [Data] payloads.
//
// A [Widget] is a tagged variant: a container with children, a text, an
// image, a button with an optional label and [Callback], or a custom widget.
// Custom widgets implement [Expander] and are rewritten into native widgets
// while the tree is flattened; [Repeat] is the built-in expander.
//
//	container:
//	  node: {style: {flex_direction: column}}
//	  children:
//	    - text: {text: {sections: [{text: Menu}], default_font: fonts/ui.ttf}}
//	    - button:
//	        label: {sections: [{text: Start}], default_font: fonts/ui.ttf}
//	        callback: {system: start}
//	    - custom:
//	        repeat:
//	          times: 3
//	          template: {text: {text: {sections: [{text: Slot}]}}}
//
// Call [Install] before spawning UI prefabs; it registers the [Callbacks]
// table named systems are looked up in.
package ui
