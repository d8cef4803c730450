// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package typeanalysis

import (
	"regexp"
	"strings"
)

var (
	rustReturnRe = regexp.MustCompile(`->\s*(.+?)\s*(?:\{|$|\))`)
	pyReturnRe   = regexp.MustCompile(`->\s*([^:]+)`)
	tsReturnRe   = regexp.MustCompile(`\)\s*:\s*([^{=]+)`)
	goReturnRe   = regexp.MustCompile(`\)\s*([^{]+)`)
	javaReturnRe = regexp.MustCompile(`(?:public\s+)?(?:private\s+)?(?:protected\s+)?(?:static\s+)?(?:final\s+)?(\w+(?:<[^>]+>)?)\s+\w+\s*\(`)
	cReturnRe    = regexp.MustCompile(`^\s*(?:static\s+)?(?:inline\s+)?(?:const\s+)?(?:struct\s+|enum\s+|union\s+)?(\w+)\s*(\*+)?\s*\w+\s*\(`)
	javaAnnotRe  = regexp.MustCompile(`@\w+\s*`)
)

func parseRustSignature(signature string) ([]TypeRef, *TypeRef) {
	var ret *TypeRef
	if m := rustReturnRe.FindStringSubmatch(signature); m != nil {
		if t := strings.TrimSpace(m[1]); t != "" {
			ret = &TypeRef{Kind: KindReturn, TypeName: cleanTypeName(t)}
		}
	}

	var params []TypeRef
	for _, part := range splitByCommaRespectingBrackets(paramBetweenParens(signature)) {
		part = strings.TrimSpace(part)
		if part == "" || part == "self" || part == "&self" || part == "&mut self" {
			continue
		}
		colon := strings.Index(part, ":")
		if colon < 0 {
			continue
		}
		name := strings.TrimSpace(part[:colon])
		typeName := strings.TrimSpace(part[colon+1:])
		if strings.HasPrefix(typeName, "'") {
			continue
		}
		params = append(params, TypeRef{Name: name, Kind: KindParameter, TypeName: cleanTypeName(typeName)})
	}

	return params, ret
}

func parsePythonSignature(signature string) ([]TypeRef, *TypeRef) {
	var ret *TypeRef
	if m := pyReturnRe.FindStringSubmatch(signature); m != nil {
		t := strings.TrimSpace(m[1])
		if t != "" && t != "None" {
			ret = &TypeRef{Kind: KindReturn, TypeName: cleanTypeName(t)}
		}
	}

	var params []TypeRef
	for _, part := range splitByCommaRespectingBrackets(paramBetweenParens(signature)) {
		part = strings.TrimSpace(part)
		if part == "" || part == "self" || part == "cls" {
			continue
		}
		if eq := strings.Index(part, "="); eq >= 0 {
			part = strings.TrimSpace(part[:eq])
		}
		colon := strings.Index(part, ":")
		if colon < 0 {
			continue
		}
		name := strings.TrimSpace(part[:colon])
		typeName := strings.TrimSpace(part[colon+1:])
		if typeName == "" {
			continue
		}
		params = append(params, TypeRef{Name: name, Kind: KindParameter, TypeName: cleanTypeName(typeName)})
	}

	return params, ret
}

func parseTypeScriptSignature(signature string) ([]TypeRef, *TypeRef) {
	var ret *TypeRef
	if m := tsReturnRe.FindStringSubmatch(signature); m != nil {
		t := strings.TrimSpace(m[1])
		if t != "" && t != "void" {
			ret = &TypeRef{Kind: KindReturn, TypeName: cleanTypeName(t)}
		}
	}

	var params []TypeRef
	for _, part := range splitByCommaRespectingBrackets(paramBetweenParens(signature)) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		part = strings.ReplaceAll(part, "?", "")
		if eq := strings.Index(part, "="); eq >= 0 {
			part = strings.TrimSpace(part[:eq])
		}
		colon := strings.Index(part, ":")
		if colon < 0 {
			continue
		}
		name := strings.TrimSpace(part[:colon])
		typeName := strings.TrimSpace(part[colon+1:])
		if typeName == "" {
			continue
		}
		params = append(params, TypeRef{Name: name, Kind: KindParameter, TypeName: cleanTypeName(typeName)})
	}

	return params, ret
}

func parseGoSignature(signature string) ([]TypeRef, *TypeRef) {
	var ret *TypeRef
	if m := goReturnRe.FindStringSubmatch(signature); m != nil {
		t := strings.TrimSpace(m[1])
		if t != "" && t != "error" {
			ret = &TypeRef{Kind: KindReturn, TypeName: cleanTypeName(t)}
		}
	}

	var params []TypeRef
	for _, part := range splitByCommaRespectingBrackets(paramBetweenParens(signature)) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		tokens := strings.Fields(part)
		if len(tokens) >= 2 {
			name := tokens[0]
			typeName := strings.Join(tokens[1:], " ")
			params = append(params, TypeRef{Name: name, Kind: KindParameter, TypeName: cleanTypeName(typeName)})
		}
	}

	return params, ret
}

func parseJavaSignature(signature string) ([]TypeRef, *TypeRef) {
	var ret *TypeRef
	if m := javaReturnRe.FindStringSubmatch(signature); m != nil {
		t := strings.TrimSpace(m[1])
		if t != "" && t != "void" {
			ret = &TypeRef{Kind: KindReturn, TypeName: cleanTypeName(t)}
		}
	}

	var params []TypeRef
	for _, part := range splitByCommaRespectingBrackets(paramBetweenParens(signature)) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		part = javaAnnotRe.ReplaceAllString(part, "")
		part = strings.TrimSpace(strings.TrimPrefix(part, "final"))
		tokens := strings.Fields(part)
		if len(tokens) >= 2 {
			typeName := strings.Join(tokens[:len(tokens)-1], " ")
			name := tokens[len(tokens)-1]
			params = append(params, TypeRef{Name: name, Kind: KindParameter, TypeName: cleanTypeName(typeName)})
		}
	}

	return params, ret
}

func parseCSignature(signature string) ([]TypeRef, *TypeRef) {
	var ret *TypeRef
	if m := cReturnRe.FindStringSubmatch(signature); m != nil {
		t := strings.TrimSpace(m[1])
		if m[2] != "" {
			t += m[2]
		}
		if t != "" && t != "void" {
			ret = &TypeRef{Kind: KindReturn, TypeName: cleanTypeName(t)}
		}
	}

	var params []TypeRef
	for _, part := range splitByCommaRespectingBrackets(paramBetweenParens(signature)) {
		part = strings.TrimSpace(part)
		if part == "" || part == "void" {
			continue
		}
		tokens := strings.Fields(part)
		if len(tokens) >= 2 {
			last := tokens[len(tokens)-1]
			name := strings.TrimLeft(last, "*")
			typeName := strings.Join(tokens[:len(tokens)-1], " ")
			if strings.HasPrefix(last, "*") {
				typeName += "*"
			}
			params = append(params, TypeRef{Name: name, Kind: KindParameter, TypeName: cleanTypeName(typeName)})
		}
	}

	return params, ret
}
