// Package plugin is the component registry. Plugins are values that list
// components; the host installs them into a Catalog and creates nodes from
// it. How plugins are found (a static table, configuration) is up to the
// host.
//
//	catalog := plugin.NewCatalog()
//	_ = catalog.Install(nodes.Plugin())
//	n, err := catalog.NewNode("processor.blur", "blur", plugin.Deps{Logger: log})
package plugin
