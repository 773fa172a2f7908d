// Package proxy defines AppProxy: the interface between peerchat and an
// application.
//
// The application pushes local text to the node through the submit channel,
// and the node hands back every message to display through Deliver, including
// the local ones. The inmem subpackage implements AppProxy with native
// callback handlers, to integrate peerchat as a regular Go dependency.
package proxy
