package extract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketindex/rocketindex/internal/model"
)

func findSymbol(t *testing.T, res *model.ParseResult, qualified string) model.Symbol {
	t.Helper()
	for _, s := range res.Symbols {
		if s.Qualified == qualified {
			return s
		}
	}
	var names []string
	for _, s := range res.Symbols {
		names = append(names, s.Qualified)
	}
	t.Fatalf("symbol %q not found, have: %v", qualified, names)
	return model.Symbol{}
}

func TestExtractGo_FromTestdataFixture(t *testing.T) {
	path := filepath.Join("..", "..", "testdata", "go", "level-02-structs-interfaces", "src", "types.go")
	src, err := os.ReadFile(path)
	require.NoError(t, err)

	res, err := Extract(path, src, 0)
	require.NoError(t, err)
	assert.Empty(t, res.Errors)

	newServer := findSymbol(t, res, "types.NewServer")
	assert.Equal(t, model.KindFunction, newServer.Kind)
	assert.Equal(t, model.Public, newServer.Visibility)

	handle := findSymbol(t, res, "types.Server.Handle")
	assert.Equal(t, model.KindFunction, handle.Kind)

	serverType := findSymbol(t, res, "types.Server")
	assert.Equal(t, model.KindType, serverType.Kind)
}

func TestExtractGo_Visibility(t *testing.T) {
	src := []byte(`package sample

func Exported() {}
func unexported() {}
`)
	res, err := Extract("sample.go", src, 0)
	require.NoError(t, err)
	assert.Equal(t, model.Public, findSymbol(t, res, "sample.Exported").Visibility)
	assert.Equal(t, model.Private, findSymbol(t, res, "sample.unexported").Visibility)
}

func TestExtractPython_PackageQualification(t *testing.T) {
	src := []byte(`class MyClass:
    def greet(self):
        return "hi"
`)
	res, err := Extract("main.py", src, 0)
	require.NoError(t, err)
	// A standalone script outside any __init__.py package gets no module
	// prefix: qualified names match how they're actually referenced.
	findSymbol(t, res, "MyClass.greet")
	findSymbol(t, res, "MyClass")
}

func TestExtractPython_PrivateConvention(t *testing.T) {
	src := []byte(`def _helper():
    pass

def public_api():
    pass
`)
	res, err := Extract("util.py", src, 0)
	require.NoError(t, err)
	assert.Equal(t, model.Private, findSymbol(t, res, "_helper").Visibility)
	assert.Equal(t, model.Public, findSymbol(t, res, "public_api").Visibility)
}

func TestExtractTypeScript_ClassAndInterface(t *testing.T) {
	src := []byte(`export interface Greeter {
  greet(name: string): string;
}

export class EnglishGreeter implements Greeter {
  private prefix: string = "Hello";

  greet(name: string): string {
    return this.prefix + name;
  }
}
`)
	res, err := Extract("greeter.ts", src, 0)
	require.NoError(t, err)

	assert.NotEmpty(t, findSymbol(t, res, "greeter.Greeter").Qualified)
	class := findSymbol(t, res, "greeter.EnglishGreeter")
	assert.Equal(t, model.KindClass, class.Kind)
}

func TestExtractJavaScript_FunctionsAndClasses(t *testing.T) {
	src := []byte(`function add(a, b) {
  return a + b;
}

class Counter {
  increment() {
    return 1;
  }
}
`)
	res, err := Extract("math.js", src, 0)
	require.NoError(t, err)
	findSymbol(t, res, "math.add")
	findSymbol(t, res, "math.Counter")
}

func TestExtractRust_PubVisibility(t *testing.T) {
	src := []byte(`pub struct Point {
    pub x: i32,
    y: i32,
}

fn helper() {}

pub fn distance(a: Point, b: Point) -> f64 {
    0.0
}
`)
	res, err := Extract("geometry.rs", src, 0)
	require.NoError(t, err)
	assert.Equal(t, model.Public, findSymbol(t, res, "distance").Visibility)
	assert.Equal(t, model.Private, findSymbol(t, res, "helper").Visibility)
}

func TestExtractJava_PackageAndVisibility(t *testing.T) {
	src := []byte(`package com.example.app;

public class Widget {
    public void render() {}
    private void cleanup() {}
}
`)
	res, err := Extract("Widget.java", src, 0)
	require.NoError(t, err)
	assert.Equal(t, "com.example.app", res.ModulePath)
	render := findSymbol(t, res, "com.example.app.Widget.render")
	assert.Equal(t, model.Public, render.Visibility)
	cleanup := findSymbol(t, res, "com.example.app.Widget.cleanup")
	assert.Equal(t, model.Private, cleanup.Visibility)
}

func TestExtractC_FunctionsAndStructs(t *testing.T) {
	src := []byte(`struct Point {
    int x;
    int y;
};

static int helper(int a) {
    return a;
}

int compute(struct Point p) {
    return p.x + p.y;
}
`)
	res, err := Extract("geometry.c", src, 0)
	require.NoError(t, err)
	assert.NotEmpty(t, res.Symbols)
}

func TestExtractCpp_Namespace(t *testing.T) {
	src := []byte(`namespace app {
class Widget {
public:
    void render();
};
}
`)
	res, err := Extract("widget.cpp", src, 0)
	require.NoError(t, err)
	assert.NotEmpty(t, res.Symbols)
}

func TestExtractPHP_Visibility(t *testing.T) {
	src := []byte(`<?php
class Widget {
    private function helper() {}
    public function render() {}
}
`)
	res, err := Extract("widget.php", src, 0)
	require.NoError(t, err)
	assert.NotEmpty(t, res.Symbols)
}

func TestExtractRuby_RequireDetection(t *testing.T) {
	src := []byte(`require "json"
require_relative "helpers"

class Widget
  def render
    1
  end

  def _internal
    2
  end
end
`)
	res, err := Extract("widget.rb", src, 0)
	require.NoError(t, err)
	findSymbol(t, res, "Widget::render")
	assert.Equal(t, model.Private, findSymbol(t, res, "Widget::_internal").Visibility)

	var paths []string
	for _, o := range res.Opens {
		paths = append(paths, o.Path)
	}
	assert.Contains(t, paths, "json")
	assert.Contains(t, paths, "helpers")
}

func TestExtractCSharp_Namespace(t *testing.T) {
	src := []byte(`namespace App.Widgets {
    public class Widget {
        public void Render() {}
        private void Cleanup() {}
    }
}
`)
	res, err := Extract("Widget.cs", src, 0)
	require.NoError(t, err)
	render := findSymbol(t, res, "App.Widgets.Widget.Render")
	assert.Equal(t, model.Public, render.Visibility)
}

func TestExtractKotlin_PackageDefault(t *testing.T) {
	src := []byte(`package com.example.app

class Widget {
    fun render() {}
    private fun cleanup() {}
}
`)
	res, err := Extract("Widget.kt", src, 0)
	require.NoError(t, err)
	assert.Equal(t, "com.example.app", res.ModulePath)
}

func TestExtractSwift_DefaultInternal(t *testing.T) {
	src := []byte(`class Widget {
    func render() {}
}
`)
	res, err := Extract("Widget.swift", src, 0)
	require.NoError(t, err)
	assert.NotEmpty(t, res.Symbols)
}

func TestExtractFSharp_ModuleAndLet(t *testing.T) {
	src := []byte(`module App.Widgets

let render x = x

let private helper y = y
`)
	res, err := Extract("widgets.fs", src, 0)
	require.NoError(t, err)
	assert.Equal(t, "App.Widgets", res.ModulePath)
	render := findSymbol(t, res, "App.Widgets.render")
	assert.Equal(t, model.Public, render.Visibility)
	helper := findSymbol(t, res, "App.Widgets.helper")
	assert.Equal(t, model.Private, helper.Visibility)
}

func TestExtractObjectiveC_InterfaceAndMethods(t *testing.T) {
	src := []byte(`#import <Foundation/Foundation.h>

@interface Widget : NSObject
- (void)render;
@end

@implementation Widget
- (void)render {
}
@end
`)
	res, err := Extract("Widget.m", src, 0)
	require.NoError(t, err)
	findSymbol(t, res, "Widget")
	findSymbol(t, res, "Widget.render")
}

func TestExtractHaxe_ClassAndFunction(t *testing.T) {
	src := []byte(`package app.widgets;

import app.Utils;

class Widget {
    public function render() {
    }
}
`)
	res, err := Extract("Widget.hx", src, 0)
	require.NoError(t, err)
	assert.Equal(t, "app.widgets", res.ModulePath)
	findSymbol(t, res, "app.widgets.Widget.render")

	var paths []string
	for _, o := range res.Opens {
		paths = append(paths, o.Path)
	}
	assert.Contains(t, paths, "app.Utils")
}

func openPaths(res *model.ParseResult) []string {
	var paths []string
	for _, o := range res.Opens {
		paths = append(paths, o.Path)
	}
	return paths
}

func TestExtractGo_ImportPathsUnquoted(t *testing.T) {
	src := []byte(`package main

import (
	"fmt"
	g "github.com/gin-gonic/gin"
)

func main() {
	fmt.Println(g.New())
}
`)
	res, err := Extract("main.go", src, 0)
	require.NoError(t, err)
	paths := openPaths(res)
	assert.Contains(t, paths, "fmt")
	assert.Contains(t, paths, "github.com/gin-gonic/gin")
}

func TestExtractPython_ImportForms(t *testing.T) {
	src := []byte(`import os.path, sys as system
from collections import OrderedDict

def run():
    pass
`)
	res, err := Extract("run.py", src, 0)
	require.NoError(t, err)
	paths := openPaths(res)
	assert.Contains(t, paths, "os.path")
	assert.Contains(t, paths, "sys")
	assert.Contains(t, paths, "collections")
}

func TestExtractRust_UsePathsDotted(t *testing.T) {
	src := []byte(`use std::collections::HashMap;
use crate::util::{helper, other};

fn main() {}
`)
	res, err := Extract("main.rs", src, 0)
	require.NoError(t, err)
	paths := openPaths(res)
	assert.Contains(t, paths, "std.collections.HashMap")
	assert.Contains(t, paths, "std.collections")
	assert.Contains(t, paths, "crate.util")
}

func TestExtractTypeScript_RelativeImportResolved(t *testing.T) {
	src := []byte(`import { Greeter } from "./greeter";

export function main(): void {}
`)
	res, err := Extract("app/main.ts", src, 0)
	require.NoError(t, err)
	assert.Contains(t, openPaths(res), "app/greeter")
}

func TestExtract_UnknownExtensionWarnsNotErrors(t *testing.T) {
	res, err := Extract("data.unknownlang", []byte("whatever"), 0)
	require.NoError(t, err)
	assert.Empty(t, res.Errors)
	assert.NotEmpty(t, res.Warnings)
}

func TestSupportedLanguages_CoversWholeRegistry(t *testing.T) {
	langs := SupportedLanguages()
	for _, want := range []string{
		"go", "python", "typescript", "javascript", "rust", "java", "c", "cpp",
		"php", "ruby", "csharp", "kotlin", "swift", "fsharp", "objectivec", "haxe",
	} {
		assert.Contains(t, langs, want)
	}
}
