// Command prefab inspects, validates and spawns UI prefab files.
package main

func main() {
	Execute()
}
