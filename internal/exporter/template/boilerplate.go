package template

import (
	"bytes"
	"encoding/xml"
	"strings"

	"gopkg.in/yaml.v3"
)

// ============================================================
// Project descriptor (YAML)
// ============================================================

type sdkRef struct {
	SDK string `yaml:"sdk"`
}

type pubspec struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	PublishTo   string `yaml:"publish_to"`
	Version     string `yaml:"version"`
	Environment sdkRef `yaml:"environment"`
	Deps        struct {
		Flutter        sdkRef `yaml:"flutter"`
		CupertinoIcons string `yaml:"cupertino_icons"`
		Provider       string `yaml:"provider"`
		PathProvider   string `yaml:"path_provider"`
	} `yaml:"dependencies"`
	DevDeps struct {
		FlutterTest  sdkRef `yaml:"flutter_test"`
		FlutterLints string `yaml:"flutter_lints"`
	} `yaml:"dev_dependencies"`
	Flutter struct {
		UsesMaterialDesign bool `yaml:"uses-material-design"`
	} `yaml:"flutter"`
}

type analysisOptions struct {
	Include string `yaml:"include"`
	Linter  struct {
		Rules []string `yaml:"rules"`
	} `yaml:"linter"`
}

func marshalYAML(v any) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func renderPubspec(projectID string) (string, error) {
	var p pubspec
	p.Name = projectID
	p.Description = "Flutter application generated from a canvas design."
	p.PublishTo = "none"
	p.Version = "1.0.0+1"
	p.Environment.SDK = ">=3.0.0 <4.0.0"
	p.Deps.Flutter.SDK = "flutter"
	p.Deps.CupertinoIcons = "^1.0.2"
	p.Deps.Provider = "^6.0.5"
	p.Deps.PathProvider = "^2.0.15"
	p.DevDeps.FlutterTest.SDK = "flutter"
	p.DevDeps.FlutterLints = "^2.0.0"
	p.Flutter.UsesMaterialDesign = true
	return marshalYAML(p)
}

func renderAnalysisOptions() (string, error) {
	var o analysisOptions
	o.Include = "package:flutter_lints/flutter.yaml"
	o.Linter.Rules = []string{
		"prefer_const_constructors",
		"prefer_const_declarations",
		"avoid_print",
		"use_key_in_widget_constructors",
	}
	return marshalYAML(o)
}

// ============================================================
// Dart sources
// ============================================================

func renderMain(title string) string {
	return `import 'package:flutter/material.dart';

import 'canvas_screen.dart';
import 'theme.dart';

void main() {
  runApp(const MyApp());
}

class MyApp extends StatelessWidget {
  const MyApp({super.key});

  @override
  Widget build(BuildContext context) {
    return MaterialApp(
      title: ` + dartString(title) + `,
      theme: appTheme,
      debugShowCheckedModeBanner: false,
      home: const CanvasScreen(),
    );
  }
}
`
}

// canvasScreen вписывает холст в экран с полями 2% с каждой стороны.
const canvasScreen = `import 'dart:math' as math;

import 'package:flutter/material.dart';

import 'canvas_elements.dart';

class CanvasScreen extends StatelessWidget {
  const CanvasScreen({super.key});

  static const double margin = 0.02;

  @override
  Widget build(BuildContext context) {
    return Scaffold(
      body: LayoutBuilder(
        builder: (context, constraints) {
          final scaleX = constraints.maxWidth * (1 - margin * 2) / designWidth;
          final scaleY = constraints.maxHeight * (1 - margin * 2) / designHeight;
          return Center(
            child: Transform.scale(
              scale: math.min(scaleX, scaleY),
              child: const CanvasElements(),
            ),
          );
        },
      ),
    );
  }
}
`

const themeDart = `import 'package:flutter/material.dart';

final ThemeData appTheme = ThemeData(
  primarySwatch: Colors.blue,
  visualDensity: VisualDensity.adaptivePlatformDensity,
  scaffoldBackgroundColor: Colors.white,
  appBarTheme: const AppBarTheme(
    backgroundColor: Colors.white,
    foregroundColor: Colors.black,
    elevation: 0,
  ),
);
`

// ============================================================
// Platform files
// ============================================================

func xmlText(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

func renderAndroidManifest(label string) string {
	return `<manifest xmlns:android="http://schemas.android.com/apk/res/android">
    <application
        android:label="` + xmlText(label) + `"
        android:name="${applicationName}"
        android:icon="@mipmap/ic_launcher">
        <activity
            android:name=".MainActivity"
            android:exported="true"
            android:launchMode="singleTop"
            android:theme="@style/LaunchTheme"
            android:configChanges="orientation|keyboardHidden|keyboard|screenSize|smallestScreenSize|locale|layoutDirection|fontScale|screenLayout|density|uiMode"
            android:hardwareAccelerated="true"
            android:windowSoftInputMode="adjustResize">
            <meta-data
              android:name="io.flutter.embedding.android.NormalTheme"
              android:resource="@style/NormalTheme"
              />
            <intent-filter>
                <action android:name="android.intent.action.MAIN"/>
                <category android:name="android.intent.category.LAUNCHER"/>
            </intent-filter>
        </activity>
        <meta-data
            android:name="flutterEmbedding"
            android:value="2" />
    </application>
</manifest>
`
}

func renderInfoPlist(displayName, bundleName string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>CFBundleDevelopmentRegion</key>
	<string>$(DEVELOPMENT_LANGUAGE)</string>
	<key>CFBundleDisplayName</key>
	<string>` + xmlText(displayName) + `</string>
	<key>CFBundleExecutable</key>
	<string>$(EXECUTABLE_NAME)</string>
	<key>CFBundleIdentifier</key>
	<string>$(PRODUCT_BUNDLE_IDENTIFIER)</string>
	<key>CFBundleInfoDictionaryVersion</key>
	<string>6.0</string>
	<key>CFBundleName</key>
	<string>` + xmlText(bundleName) + `</string>
	<key>CFBundlePackageType</key>
	<string>APPL</string>
	<key>CFBundleShortVersionString</key>
	<string>$(FLUTTER_BUILD_NAME)</string>
	<key>CFBundleSignature</key>
	<string>????</string>
	<key>CFBundleVersion</key>
	<string>$(FLUTTER_BUILD_NUMBER)</string>
	<key>LSRequiresIPhoneOS</key>
	<true/>
	<key>UILaunchStoryboardName</key>
	<string>LaunchScreen</string>
	<key>UIMainStoryboardFile</key>
	<string>Main</string>
	<key>UISupportedInterfaceOrientations</key>
	<array>
		<string>UIInterfaceOrientationPortrait</string>
		<string>UIInterfaceOrientationLandscapeLeft</string>
		<string>UIInterfaceOrientationLandscapeRight</string>
	</array>
	<key>UIViewControllerBasedStatusBarAppearance</key>
	<false/>
	<key>CADisableMinimumFrameDurationOnPhone</key>
	<true/>
</dict>
</plist>
`
}

func renderReadme(title string) string {
	return "# " + title + ` - Flutter project

This Flutter project was generated automatically from a canvas design.

## Getting started

1. Unzip the archive
2. Open a terminal in the project folder
3. Run ` + "`flutter pub get`" + ` to install dependencies
4. Run ` + "`flutter run`" + ` to start the app on an emulator or a connected device

## Layout

- ` + "`lib/main.dart`" + `: application entry point
- ` + "`lib/canvas_screen.dart`" + `: screen that scales the design to fit
- ` + "`lib/canvas_elements.dart`" + `: one widget per design layer
- ` + "`lib/theme.dart`" + `: application theme
`
}
