// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidCategory indicates a category name outside the closed set.
	ErrInvalidCategory = errors.New("invalid category")

	// ErrInvalidProfile indicates a Profile failed validation.
	ErrInvalidProfile = errors.New("invalid profile")

	// ErrEmptyProfileName indicates the profile name is empty.
	ErrEmptyProfileName = errors.New("profile name cannot be empty")

	// ErrInvalidScalar indicates a scalar field held a JSON object.
	ErrInvalidScalar = errors.New("scalar field cannot be an object")

	// ErrEmptySectionKey indicates a list item is missing its identifying field.
	ErrEmptySectionKey = errors.New("section is missing its name")

)
