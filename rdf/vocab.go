// Copyright 2019 eBay Inc.
// Primary authors: Simon Fell, Diego Ongaro,
//                  Raymond Kroeker, and Sathish Kandasamy.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
// https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package rdf

// Well known namespaces.
const (
	RDFNamespace    = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	RDFSNamespace   = "http://www.w3.org/2000/01/rdf-schema#"
	XSDNamespace    = "http://www.w3.org/2001/XMLSchema#"
	OWLNamespace    = "http://www.w3.org/2002/07/owl#"
	FOAFNamespace   = "http://xmlns.com/foaf/0.1/"
	SchemaNamespace = "http://schema.org/"
	DCNamespace     = "http://purl.org/dc/elements/1.1/"
)

// Well known IRIs.
const (
	RDFType       = IRI(RDFNamespace + "type")
	RDFLangString = IRI(RDFNamespace + "langString")
	RDFSLabel     = IRI(RDFSNamespace + "label")

	XSDString             = IRI(XSDNamespace + "string")
	XSDBoolean            = IRI(XSDNamespace + "boolean")
	XSDInteger            = IRI(XSDNamespace + "integer")
	XSDInt                = IRI(XSDNamespace + "int")
	XSDLong               = IRI(XSDNamespace + "long")
	XSDShort              = IRI(XSDNamespace + "short")
	XSDByte               = IRI(XSDNamespace + "byte")
	XSDNonNegativeInteger = IRI(XSDNamespace + "nonNegativeInteger")
	XSDPositiveInteger    = IRI(XSDNamespace + "positiveInteger")
	XSDNegativeInteger    = IRI(XSDNamespace + "negativeInteger")
	XSDNonPositiveInteger = IRI(XSDNamespace + "nonPositiveInteger")
	XSDUnsignedLong       = IRI(XSDNamespace + "unsignedLong")
	XSDUnsignedInt        = IRI(XSDNamespace + "unsignedInt")
	XSDUnsignedShort      = IRI(XSDNamespace + "unsignedShort")
	XSDUnsignedByte       = IRI(XSDNamespace + "unsignedByte")
	XSDDecimal            = IRI(XSDNamespace + "decimal")
	XSDFloat              = IRI(XSDNamespace + "float")
	XSDDouble             = IRI(XSDNamespace + "double")
	XSDDateTime           = IRI(XSDNamespace + "dateTime")
)

// DefaultPrefixes are the prefix declarations every run starts with.
var DefaultPrefixes = map[string]string{
	"rdf":    RDFNamespace,
	"rdfs":   RDFSNamespace,
	"xsd":    XSDNamespace,
	"owl":    OWLNamespace,
	"foaf":   FOAFNamespace,
	"schema": SchemaNamespace,
	"dc":     DCNamespace,
}
