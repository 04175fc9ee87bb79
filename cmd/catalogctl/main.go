// Command catalogctl renders storefront views from the catalog API on the
// command line.
package main

func main() {
	Execute()
}
