// Package settle fournit la primitive de jointure "attendre tout, ne jamais
// échouer en premier" utilisée par l'agrégation de profil : chaque tâche part
// immédiatement, et Settle rend soit la valeur, soit la valeur de repli
// accompagnée de l'erreur pour que l'appelant puisse la journaliser.
package settle

import (
	"context"
	"fmt"
)

// Task est une tâche en vol lancée par Go. Une Task se règle exactement une fois.
type Task[T any] struct {
	done     chan struct{}
	value    T
	err      error
	fallback T
}

// Go lance fn tout de suite dans sa propre goroutine. L'abandon du contexte
// n'interrompt pas les tâches sœurs : chacune court jusqu'à son propre
// timeout et ses résultats sont simplement ignorés si plus personne n'attend.
func Go[T any](ctx context.Context, fallback T, fn func(context.Context) (T, error)) *Task[T] {
	t := &Task[T]{done: make(chan struct{}), fallback: fallback}
	go func() {
		defer close(t.done)
		defer func() {
			if rec := recover(); rec != nil {
				t.err = fmt.Errorf("task panicked: %v", rec)
			}
		}()
		t.value, t.err = fn(ctx)
	}()
	return t
}

// Settle bloque jusqu'à la fin de la tâche. En cas d'erreur (ou de panique),
// la valeur de repli est rendue avec l'erreur ; sinon la valeur calculée.
func (t *Task[T]) Settle() (T, error) {
	<-t.done
	if t.err != nil {
		return t.fallback, t.err
	}
	return t.value, nil
}
